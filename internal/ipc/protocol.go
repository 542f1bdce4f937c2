// Package ipc handles inter-process communication between the daemon
// and its controlling clients: newline-delimited JSON messages over a
// Unix domain socket.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents the type of control message.
type CommandType string

const (
	CmdGetDevices      CommandType = "getDevices"
	CmdSelectDevice    CommandType = "selectDevice"
	CmdOpen            CommandType = "open"
	CmdGetEffects      CommandType = "getEffects"
	CmdSetEffect       CommandType = "setEffect"
	CmdSetSettings     CommandType = "setSettings"
	CmdSetColor        CommandType = "setColor"
	CmdSetUniverse     CommandType = "setUniverse"
	CmdUsesExternalColor CommandType = "usesExternalColor"
	CmdSubscribePreview CommandType = "subscribePreview"
	CmdClose           CommandType = "close"
)

// PushMessage is a server-initiated message, sent without a matching
// request -- used for preview-frame broadcast to subscribed clients.
type PushMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ControlMessage is a client request.
type ControlMessage struct {
	Cmd  CommandType     `json:"cmd"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ControlResponse is the daemon's reply to a ControlMessage.
type ControlResponse struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DeviceInfo mirrors audiosrc.DeviceInfo for wire transport.
type DeviceInfo struct {
	Index             int     `json:"index"`
	Name              string  `json:"name"`
	MaxInputChannels  int     `json:"maxInputChannels"`
	DefaultSampleRate float64 `json:"defaultSampleRate"`
}

// GetDevicesResponse is the response to a getDevices command.
type GetDevicesResponse struct {
	Devices []DeviceInfo `json:"devices"`
}

// SelectDeviceRequest is the data for a selectDevice command.
type SelectDeviceRequest struct {
	Device DeviceInfo `json:"device"`
}

// OpenRequest is the data for an open command.
type OpenRequest struct {
	Effect       string  `json:"effect"`
	NBins        int     `json:"nBins"`
	MinFrequency int     `json:"minFrequency"`
	MaxFrequency int     `json:"maxFrequency"`
	Color        [3]uint8 `json:"color"`
}

// GetEffectsResponse is the response to a getEffects command.
type GetEffectsResponse struct {
	Effects []string `json:"effects"`
}

// SetEffectRequest is the data for a setEffect command.
type SetEffectRequest struct {
	Name string `json:"name"`
}

// SetSettingsRequest is the data for a setSettings command.
type SetSettingsRequest struct {
	NBins        int `json:"nBins"`
	MinFrequency int `json:"minFrequency"`
	MaxFrequency int `json:"maxFrequency"`
}

// SetColorRequest is the data for a setColor command.
type SetColorRequest struct {
	Color [3]uint8 `json:"color"`
}

// SetUniverseRequest is the data for a setUniverse command.
type SetUniverseRequest struct {
	Universe uint16 `json:"universe"`
}

// UsesExternalColorResponse is the response to a usesExternalColor
// command.
type UsesExternalColorResponse struct {
	Used bool `json:"used"`
}

// PreviewFrameMessage is the push payload for subscribed clients: one
// per rendered tick, written to each subscriber in turn, so a slow
// client delays delivery to the others. Frames that pile up meanwhile
// are dropped oldest-first by the stream's preview channel, so the
// audio callback never waits on a client.
type PreviewFrameMessage struct {
	Effect []float32 `json:"effect"`
	Color  [3]uint8  `json:"color"`
}

// DecodeMessage decodes a ControlMessage from one line of JSON.
func DecodeMessage(data []byte) (*ControlMessage, error) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode control message: %w", err)
	}
	return &msg, nil
}

// EncodeResponse encodes a ControlResponse to JSON.
func EncodeResponse(resp *ControlResponse) ([]byte, error) {
	return json.Marshal(resp)
}

// NewOKResponse creates a successful response, optionally carrying
// data.
func NewOKResponse(data interface{}) (*ControlResponse, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}
	return &ControlResponse{OK: true, Data: rawData}, nil
}

// NewErrorResponse creates an error response.
func NewErrorResponse(err string) *ControlResponse {
	return &ControlResponse{OK: false, Error: err}
}

// NewPushMessage creates a server-initiated push message.
func NewPushMessage(msgType string, data interface{}) ([]byte, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}
	msg := PushMessage{Type: msgType, Data: rawData}
	return json.Marshal(msg)
}
