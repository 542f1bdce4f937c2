package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/kbrandt/ledwave/internal/audiosrc"
	"github.com/kbrandt/ledwave/internal/config"
	"github.com/kbrandt/ledwave/internal/controller"
	"github.com/kbrandt/ledwave/internal/dsp"
	"github.com/kbrandt/ledwave/internal/stream"
)

// Server handles IPC communication with clients over a Unix domain
// socket: one control connection per client, newline-delimited JSON
// requests and responses, plus a preview-frame broadcast to whichever
// clients have subscribed.
type Server struct {
	socketPath string
	ctrl       *controller.Controller
	configMgr  *config.Manager

	listener net.Listener
	mu       sync.Mutex
	clients  map[net.Conn]struct{}

	previewSubsMu sync.RWMutex
	previewSubs   map[net.Conn]bool
}

// NewServer creates a new IPC server bound to socketPath, driving ctrl
// and persisting changes through configMgr.
func NewServer(socketPath string, ctrl *controller.Controller, configMgr *config.Manager) *Server {
	return &Server{
		socketPath:  socketPath,
		ctrl:        ctrl,
		configMgr:   configMgr,
		clients:     make(map[net.Conn]struct{}),
		previewSubs: make(map[net.Conn]bool),
	}
}

// Start starts the IPC server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := os.RemoveAll(s.socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	log.Printf("[IPC] Creating socket at %s", s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("[IPC] Server listening, waiting for connections...")

	go s.acceptLoop(ctx)

	<-ctx.Done()

	log.Printf("[IPC] Shutting down server...")

	s.mu.Lock()
	clientCount := len(s.clients)
	for conn := range s.clients {
		conn.Close()
	}
	s.mu.Unlock()

	log.Printf("[IPC] Closed %d client connections", clientCount)

	listener.Close()
	os.RemoveAll(s.socketPath)

	log.Printf("[IPC] Server stopped")

	return nil
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				log.Printf("[IPC] Accept error: %v", err)
				continue
			}
		}

		remoteAddr := conn.RemoteAddr().String()
		log.Printf("[IPC] New client connection from %s", remoteAddr)

		s.mu.Lock()
		s.clients[conn] = struct{}{}
		clientCount := len(s.clients)
		s.mu.Unlock()

		log.Printf("[IPC] Active clients: %d", clientCount)

		go s.handleConnection(ctx, conn)
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()

	defer func() {
		log.Printf("[IPC] Client disconnected: %s", remoteAddr)
		conn.Close()
		s.mu.Lock()
		delete(s.clients, conn)
		clientCount := len(s.clients)
		s.mu.Unlock()
		s.previewSubsMu.Lock()
		delete(s.previewSubs, conn)
		s.previewSubsMu.Unlock()
		log.Printf("[IPC] Active clients: %d", clientCount)
	}()

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("[IPC] Read error from %s: %v", remoteAddr, err)
			}
			return
		}

		msg, err := DecodeMessage(line)
		if err != nil {
			log.Printf("[IPC] Invalid message format from %s: %v", remoteAddr, err)
			s.sendError(conn, "invalid message format")
			continue
		}

		log.Printf("[IPC] Command: %s", msg.Cmd)

		resp := s.handleMessage(conn, msg)

		if resp.OK {
			log.Printf("[IPC] Response: ok")
		} else {
			log.Printf("[IPC] Response: error=%q", resp.Error)
		}

		if err := s.sendResponse(conn, resp); err != nil {
			log.Printf("[IPC] Send error to %s: %v", remoteAddr, err)
			return
		}
	}
}

func (s *Server) handleMessage(conn net.Conn, msg *ControlMessage) *ControlResponse {
	switch msg.Cmd {
	case CmdGetDevices:
		return s.handleGetDevices()
	case CmdSelectDevice:
		return s.handleSelectDevice(msg)
	case CmdOpen:
		return s.handleOpen(msg)
	case CmdGetEffects:
		return s.handleGetEffects()
	case CmdSetEffect:
		return s.handleSetEffect(msg)
	case CmdSetSettings:
		return s.handleSetSettings(msg)
	case CmdSetColor:
		return s.handleSetColor(msg)
	case CmdSetUniverse:
		return s.handleSetUniverse(msg)
	case CmdUsesExternalColor:
		return s.handleUsesExternalColor()
	case CmdSubscribePreview:
		return s.handleSubscribePreview(conn)
	case CmdClose:
		return s.handleClose()
	default:
		return NewErrorResponse("unknown command")
	}
}

func (s *Server) handleGetDevices() *ControlResponse {
	devices, err := s.ctrl.AvailableInputDevices()
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	wire := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		wire[i] = DeviceInfo{
			Index:             d.Index,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
		}
	}

	resp, err := NewOKResponse(GetDevicesResponse{Devices: wire})
	if err != nil {
		return NewErrorResponse("internal error")
	}
	return resp
}

func (s *Server) handleSelectDevice(msg *ControlMessage) *ControlResponse {
	var req SelectDeviceRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return NewErrorResponse("invalid selectDevice request")
	}

	s.ctrl.SelectInputDevice(audiosrc.DeviceInfo{
		Index:             req.Device.Index,
		Name:              req.Device.Name,
		MaxInputChannels:  req.Device.MaxInputChannels,
		DefaultSampleRate: req.Device.DefaultSampleRate,
	})

	return &ControlResponse{OK: true}
}

func (s *Server) handleOpen(msg *ControlMessage) *ControlResponse {
	var req OpenRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return NewErrorResponse("invalid open request")
	}

	cfg := s.configMgr.Get()

	settings := dsp.Settings{
		NBins:        req.NBins,
		MinFrequency: req.MinFrequency,
		MaxFrequency: req.MaxFrequency,
	}
	if settings.NBins == 0 {
		settings = cfg.DSP
	}
	effect := req.Effect
	if effect == "" {
		effect = cfg.DefaultEffect
	}

	view, err := s.ctrl.Open(effect, settings, req.Color)
	if err != nil {
		log.Printf("[IPC] Open failed: %v", err)
		return NewErrorResponse(err.Error())
	}
	if err := s.ctrl.SetUniverse(cfg.SacnUniverse); err != nil {
		log.Printf("[IPC] Failed to apply configured universe %d: %v", cfg.SacnUniverse, err)
	}

	go s.forwardPreview(view)

	return &ControlResponse{OK: true}
}

// forwardPreview drains the controller's preview channel for as long
// as it stays open and broadcasts each frame to subscribed clients. It
// exits when a later Open replaces the stream, which closes this
// channel; Close stops capture but leaves the channel open.
func (s *Server) forwardPreview(view <-chan stream.PreviewFrame) {
	for frame := range view {
		s.broadcastPreview(frame)
	}
}

func (s *Server) broadcastPreview(frame stream.PreviewFrame) {
	s.previewSubsMu.RLock()
	if len(s.previewSubs) == 0 {
		s.previewSubsMu.RUnlock()
		return
	}
	subs := make([]net.Conn, 0, len(s.previewSubs))
	for conn := range s.previewSubs {
		subs = append(subs, conn)
	}
	s.previewSubsMu.RUnlock()

	msgBytes, err := NewPushMessage("preview", PreviewFrameMessage{
		Effect: frame.Effect,
		Color:  frame.Color,
	})
	if err != nil {
		return
	}
	msgBytes = append(msgBytes, '\n')

	for _, conn := range subs {
		if _, err := conn.Write(msgBytes); err != nil {
			s.previewSubsMu.Lock()
			delete(s.previewSubs, conn)
			s.previewSubsMu.Unlock()
		}
	}
}

func (s *Server) handleGetEffects() *ControlResponse {
	resp, err := NewOKResponse(GetEffectsResponse{Effects: s.ctrl.EffectNames()})
	if err != nil {
		return NewErrorResponse("internal error")
	}
	return resp
}

func (s *Server) handleSetEffect(msg *ControlMessage) *ControlResponse {
	var req SetEffectRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return NewErrorResponse("invalid setEffect request")
	}
	if err := s.ctrl.UpdateEffect(req.Name); err != nil {
		return NewErrorResponse(err.Error())
	}
	return &ControlResponse{OK: true}
}

func (s *Server) handleSetSettings(msg *ControlMessage) *ControlResponse {
	var req SetSettingsRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return NewErrorResponse("invalid setSettings request")
	}
	if req.NBins < 1 || req.NBins > 100 {
		return NewErrorResponse("invalid setSettings request: nBins must be between 1 and 100")
	}
	s.ctrl.UpdateSettings(dsp.Settings{
		NBins:        req.NBins,
		MinFrequency: req.MinFrequency,
		MaxFrequency: req.MaxFrequency,
	})
	return &ControlResponse{OK: true}
}

func (s *Server) handleSetColor(msg *ControlMessage) *ControlResponse {
	var req SetColorRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return NewErrorResponse("invalid setColor request")
	}
	s.ctrl.UpdateColor(req.Color)
	return &ControlResponse{OK: true}
}

func (s *Server) handleSetUniverse(msg *ControlMessage) *ControlResponse {
	var req SetUniverseRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return NewErrorResponse("invalid setUniverse request")
	}
	if err := s.ctrl.SetUniverse(req.Universe); err != nil {
		return NewErrorResponse(err.Error())
	}

	cfg := s.configMgr.Get()
	cfg.SacnUniverse = req.Universe
	if err := s.configMgr.Update(cfg); err != nil {
		log.Printf("[IPC] Failed to persist universe change: %v", err)
	}

	return &ControlResponse{OK: true}
}

func (s *Server) handleUsesExternalColor() *ControlResponse {
	used, err := s.ctrl.UsesExternalColor()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(UsesExternalColorResponse{Used: used})
	if err != nil {
		return NewErrorResponse("internal error")
	}
	return resp
}

func (s *Server) handleSubscribePreview(conn net.Conn) *ControlResponse {
	s.previewSubsMu.Lock()
	s.previewSubs[conn] = true
	count := len(s.previewSubs)
	s.previewSubsMu.Unlock()

	log.Printf("[IPC] Client subscribed to preview frames (total: %d)", count)

	return &ControlResponse{OK: true}
}

func (s *Server) handleClose() *ControlResponse {
	if err := s.ctrl.Close(); err != nil {
		return NewErrorResponse(err.Error())
	}
	return &ControlResponse{OK: true}
}

func (s *Server) sendResponse(conn net.Conn, resp *ControlResponse) error {
	data, err := EncodeResponse(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = conn.Write(data)
	return err
}

func (s *Server) sendError(conn net.Conn, msg string) {
	s.sendResponse(conn, NewErrorResponse(msg))
}
