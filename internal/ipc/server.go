package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Evilchuck666/WinJitsu/internal/config"
	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/runtimepath"
	"github.com/Evilchuck666/WinJitsu/internal/snap"
	"github.com/Evilchuck666/WinJitsu/internal/state"
)

// Snapper runs snap actions on behalf of IPC clients.
type Snapper interface {
	Apply(action snap.Action) (snap.Result, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	snapper      Snapper
	backend      platform.Backend
	store        state.Store
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	hotkeyCount  int
	log          zerolog.Logger
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, snapper Snapper, backend platform.Backend, store state.Store, reloadChan chan struct{}, log zerolog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		snapper:    snapper,
		backend:    backend,
		store:      store,
		startTime:  time.Now(),
		reloadChan: reloadChan,
		log:        log,
	}, nil
}

// SetHotkeyCount records how many hotkeys the daemon registered, for GET_STATUS.
func (s *Server) SetHotkeyCount(n int) {
	s.hotkeyCount = n
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Error().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Error().Err(err).Msg("IPC read error")
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal IPC response")
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Error().Err(err).Msg("failed to send IPC response")
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandSnap:
		return s.handleSnap(req.Payload)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandGetSaved:
		return s.handleGetSaved()
	case CommandClearCache:
		return s.handleClearCache()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleSnap runs a snap action against the active window
func (s *Server) handleSnap(payload json.RawMessage) *Response {
	var snapReq SnapPayload
	if err := json.Unmarshal(payload, &snapReq); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid snap payload: %v", err))
	}

	action, err := snap.ParseAction(snapReq.Action)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	result, err := s.snapper.Apply(action)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	data := SnapData{
		Action:   string(result.Action),
		WindowID: uint32(result.WindowID),
		From:     rectInfo(result.From),
		To:       rectInfo(result.To),
		Display:  result.Display,
		NoOp:     result.NoOp,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	monitorCount := 0
	if displays, err := s.backend.Displays(); err == nil {
		monitorCount = len(displays)
	}

	savedCount := 0
	if entries, err := s.store.List(); err == nil {
		savedCount = len(entries)
	}

	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		MonitorCount:  monitorCount,
		SavedStates:   savedCount,
		Hotkeys:       s.hotkeyCount,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	displays, err := s.backend.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			ID:      d.ID,
			Name:    d.Name,
			Primary: d.Primary,
			Bounds:  rectInfo(d.Bounds),
			Usable:  rectInfo(d.Usable),
		}
	}

	data := MonitorsData{
		Monitors: monitorInfos,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleGetSaved returns every cached pre-snap geometry
func (s *Server) handleGetSaved() *Response {
	entries, err := s.store.List()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list saved states: %v", err))
	}

	states := make([]SavedStateInfo, len(entries))
	for i, e := range entries {
		states[i] = SavedStateInfo{
			WindowID: e.WindowID,
			Geometry: rectInfo(e.Rect()),
			SavedAt:  e.SavedAt,
		}
	}

	resp, _ := NewOKResponse(SavedData{States: states})
	return resp
}

// handleClearCache removes every saved state
func (s *Server) handleClearCache() *Response {
	if err := s.store.Clear(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to clear cache: %v", err))
	}

	s.log.Info().Msg("IPC: saved-state cache cleared")

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.log.Info().Msg("IPC: received RELOAD command")

	// Load new config
	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	// Update config atomically
	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	s.log.Info().Msg("IPC: config reloaded")

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}

func rectInfo(r platform.Rect) RectInfo {
	return RectInfo{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
