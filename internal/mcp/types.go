package mcp

import "time"

// RectInfo is a screen rectangle in root coordinates.
type RectInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SnapWindowInput is the input for the snap_window tool.
type SnapWindowInput struct {
	Action string `json:"action" jsonschema:"required,Action code: N S E W for halves; NE NW SE SW for quadrants; C center; F fullscreen; U unscreen; TF toggle fullscreen; TD toggle display; CC clear cache"`
}

// SnapWindowOutput is the output for the snap_window tool.
type SnapWindowOutput struct {
	Action   string   `json:"action"`
	WindowID uint32   `json:"window_id,omitempty"`
	From     RectInfo `json:"from"`
	To       RectInfo `json:"to"`
	Display  string   `json:"display,omitempty"`
	NoOp     bool     `json:"no_op,omitempty"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorInfo describes a single connected monitor.
type MonitorInfo struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Primary bool     `json:"primary,omitempty"`
	Bounds  RectInfo `json:"bounds"`
	Usable  RectInfo `json:"usable"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// GetActiveWindowInput is the input for the get_active_window tool.
type GetActiveWindowInput struct{}

// GetActiveWindowOutput is the output for the get_active_window tool.
type GetActiveWindowOutput struct {
	WindowID uint32   `json:"window_id"`
	Geometry RectInfo `json:"geometry"`
	Display  string   `json:"display,omitempty"`
	Saved    bool     `json:"saved"`
}

// GetSavedStateInput is the input for the get_saved_state tool.
type GetSavedStateInput struct {
	WindowID uint32 `json:"window_id,omitempty" jsonschema:"Window ID to look up. When omitted, every saved state is returned."`
}

// SavedState is one cached pre-snap geometry.
type SavedState struct {
	WindowID uint32    `json:"window_id"`
	Geometry RectInfo  `json:"geometry"`
	SavedAt  time.Time `json:"saved_at"`
}

// GetSavedStateOutput is the output for the get_saved_state tool.
type GetSavedStateOutput struct {
	States []SavedState `json:"states"`
}

// ClearCacheInput is the input for the clear_cache tool.
type ClearCacheInput struct{}

// ClearCacheOutput is the output for the clear_cache tool.
type ClearCacheOutput struct {
	Cleared bool `json:"cleared"`
}
