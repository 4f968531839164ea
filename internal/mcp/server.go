package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/snap"
	"github.com/Evilchuck666/WinJitsu/internal/state"
)

const (
	ServerName    = "winjitsu"
	ServerVersion = "0.1.0"
)

// Snapper runs snap actions on behalf of MCP clients.
type Snapper interface {
	Apply(action snap.Action) (snap.Result, error)
}

// Server is the MCP server exposing window snapping to AI agents.
type Server struct {
	mcpServer *mcpsdk.Server
	snapper   Snapper
	backend   platform.Backend
	store     state.Store
	log       zerolog.Logger
}

// NewServer creates a new MCP server over the given snapper and backend.
func NewServer(snapper Snapper, backend platform.Backend, store state.Store, log zerolog.Logger) *Server {
	s := &Server{
		snapper: snapper,
		backend: backend,
		store:   store,
		log:     log,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_window",
		Description: "Snap the active window to a screen region. Action codes: N S E W move to half-screen edges, NE NW SE SW to quadrants, C centers without resizing, F fills the monitor (saving the previous geometry), U restores the saved geometry, TF toggles fullscreen, TD throws the window to the next monitor, CC clears every saved geometry.",
	}, s.handleSnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the connected monitors with their full and usable (strut-adjusted) areas, ordered left to right.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_active_window",
		Description: "Report the currently focused window: its ID, geometry, the monitor it sits on, and whether a saved geometry exists for it.",
	}, s.handleGetActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_saved_state",
		Description: "Fetch cached pre-snap geometries. Pass window_id for a single window, or omit it to list every saved state.",
	}, s.handleGetSavedState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clear_cache",
		Description: "Delete every cached pre-snap geometry. Subsequent unscreen actions become no-ops until new states are saved.",
	}, s.handleClearCache)
}
