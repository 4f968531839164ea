package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/snap"
)

func (s *Server) handleSnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapWindowInput) (*mcpsdk.CallToolResult, SnapWindowOutput, error) {
	action, err := snap.ParseAction(args.Action)
	if err != nil {
		return nil, SnapWindowOutput{}, err
	}

	result, err := s.snapper.Apply(action)
	if err != nil {
		s.log.Error().Err(err).Str("action", string(action)).Msg("mcp snap failed")
		return nil, SnapWindowOutput{}, err
	}

	out := SnapWindowOutput{
		Action:   string(result.Action),
		WindowID: uint32(result.WindowID),
		From:     rectInfo(result.From),
		To:       rectInfo(result.To),
		Display:  result.Display,
		NoOp:     result.NoOp,
	}
	return nil, out, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	displays, err := s.backend.Displays()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("failed to read monitor topology: %w", err)
	}

	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, len(displays))}
	for i, d := range displays {
		out.Monitors[i] = MonitorInfo{
			ID:      d.ID,
			Name:    d.Name,
			Primary: d.Primary,
			Bounds:  rectInfo(d.Bounds),
			Usable:  rectInfo(d.Usable),
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetActiveWindowInput) (*mcpsdk.CallToolResult, GetActiveWindowOutput, error) {
	id, err := s.backend.ActiveWindow()
	if err != nil {
		return nil, GetActiveWindowOutput{}, fmt.Errorf("failed to resolve active window: %w", err)
	}

	rect, err := s.backend.WindowRect(id)
	if err != nil {
		return nil, GetActiveWindowOutput{}, fmt.Errorf("failed to read window geometry: %w", err)
	}

	out := GetActiveWindowOutput{
		WindowID: uint32(id),
		Geometry: rectInfo(rect),
	}

	if displays, err := s.backend.Displays(); err == nil {
		if disp, err := snap.DisplayFor(rect, displays); err == nil {
			out.Display = disp.Name
		}
	}
	if entry, err := s.store.Get(uint32(id)); err == nil && entry != nil {
		out.Saved = true
	}

	return nil, out, nil
}

func (s *Server) handleGetSavedState(_ context.Context, _ *mcpsdk.CallToolRequest, args GetSavedStateInput) (*mcpsdk.CallToolResult, GetSavedStateOutput, error) {
	if args.WindowID != 0 {
		entry, err := s.store.Get(args.WindowID)
		if err != nil {
			return nil, GetSavedStateOutput{}, fmt.Errorf("failed to read saved state: %w", err)
		}
		if entry == nil {
			return nil, GetSavedStateOutput{}, nil
		}
		out := GetSavedStateOutput{States: []SavedState{{
			WindowID: entry.WindowID,
			Geometry: rectInfo(entry.Rect()),
			SavedAt:  entry.SavedAt,
		}}}
		return nil, out, nil
	}

	entries, err := s.store.List()
	if err != nil {
		return nil, GetSavedStateOutput{}, fmt.Errorf("failed to list saved states: %w", err)
	}

	out := GetSavedStateOutput{States: make([]SavedState, len(entries))}
	for i, e := range entries {
		out.States[i] = SavedState{
			WindowID: e.WindowID,
			Geometry: rectInfo(e.Rect()),
			SavedAt:  e.SavedAt,
		}
	}
	return nil, out, nil
}

func (s *Server) handleClearCache(_ context.Context, _ *mcpsdk.CallToolRequest, _ ClearCacheInput) (*mcpsdk.CallToolResult, ClearCacheOutput, error) {
	if err := s.store.Clear(); err != nil {
		return nil, ClearCacheOutput{}, fmt.Errorf("failed to clear cache: %w", err)
	}
	s.log.Info().Msg("mcp: saved-state cache cleared")
	return nil, ClearCacheOutput{Cleared: true}, nil
}

func rectInfo(r platform.Rect) RectInfo {
	return RectInfo{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
