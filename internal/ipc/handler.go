package ipc

// This file provides logging helpers for control messages. The
// server's request loop logs inline and does not call them.

import (
	"log"
	"time"
)

// RequestLogger logs an incoming control message (for debugging).
func RequestLogger(msg *ControlMessage) {
	log.Printf("[IPC] cmd=%s", msg.Cmd)
}

// ResponseLogger logs an outgoing response (for debugging).
func ResponseLogger(resp *ControlResponse, duration time.Duration) {
	if resp.OK {
		log.Printf("[IPC] ok=true duration=%v", duration)
	} else {
		log.Printf("[IPC] ok=false error=%s duration=%v", resp.Error, duration)
	}
}
