package ipc

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandSnap        CommandType = "SNAP"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandGetSaved    CommandType = "GET_SAVED"
	CommandClearCache  CommandType = "CLEAR_CACHE"
	CommandReload      CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RectInfo is a screen rectangle in root coordinates.
type RectInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SnapPayload represents the payload for the SNAP command
type SnapPayload struct {
	Action string `json:"action"`
}

// SnapData represents the data returned by SNAP
type SnapData struct {
	Action   string   `json:"action"`
	WindowID uint32   `json:"window_id"`
	From     RectInfo `json:"from"`
	To       RectInfo `json:"to"`
	Display  string   `json:"display,omitempty"`
	NoOp     bool     `json:"no_op,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonRunning bool  `json:"daemon_running"`
	MonitorCount  int   `json:"monitor_count"`
	SavedStates   int   `json:"saved_states"`
	Hotkeys       int   `json:"hotkeys"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Primary bool     `json:"primary,omitempty"`
	Bounds  RectInfo `json:"bounds"`
	Usable  RectInfo `json:"usable"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// SavedStateInfo is one cached pre-fullscreen geometry.
type SavedStateInfo struct {
	WindowID uint32    `json:"window_id"`
	Geometry RectInfo  `json:"geometry"`
	SavedAt  time.Time `json:"saved_at"`
}

// SavedData represents the data returned by GET_SAVED
type SavedData struct {
	States []SavedStateInfo `json:"states"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
