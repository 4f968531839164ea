package snap

import (
	"fmt"
	"strings"
)

// Action identifies one window snapping operation.
type Action string

const (
	ActionNorth            Action = "N"
	ActionSouth            Action = "S"
	ActionEast             Action = "E"
	ActionWest             Action = "W"
	ActionNorthEast        Action = "NE"
	ActionNorthWest        Action = "NW"
	ActionSouthEast        Action = "SE"
	ActionSouthWest        Action = "SW"
	ActionCenter           Action = "C"
	ActionFullscreen       Action = "F"
	ActionUnscreen         Action = "U"
	ActionToggleFullscreen Action = "TF"
	ActionToggleDisplay    Action = "TD"
	ActionClearCache       Action = "CC"
)

// Actions returns every supported action code in display order.
func Actions() []Action {
	return []Action{
		ActionNorth, ActionSouth, ActionEast, ActionWest,
		ActionNorthEast, ActionNorthWest, ActionSouthEast, ActionSouthWest,
		ActionCenter, ActionFullscreen, ActionUnscreen,
		ActionToggleFullscreen, ActionToggleDisplay, ActionClearCache,
	}
}

// ParseAction maps a user-supplied code to an Action, case-insensitively.
func ParseAction(s string) (Action, error) {
	action := Action(strings.ToUpper(strings.TrimSpace(s)))
	switch action {
	case ActionNorth, ActionSouth, ActionEast, ActionWest,
		ActionNorthEast, ActionNorthWest, ActionSouthEast, ActionSouthWest,
		ActionCenter, ActionFullscreen, ActionUnscreen,
		ActionToggleFullscreen, ActionToggleDisplay, ActionClearCache:
		return action, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Description returns a short human-readable summary of the action.
func (a Action) Description() string {
	switch a {
	case ActionNorth:
		return "snap to the top half of the monitor"
	case ActionSouth:
		return "snap to the bottom half of the monitor"
	case ActionEast:
		return "snap to the right half of the monitor"
	case ActionWest:
		return "snap to the left half of the monitor"
	case ActionNorthEast:
		return "snap to the top-right quadrant"
	case ActionNorthWest:
		return "snap to the top-left quadrant"
	case ActionSouthEast:
		return "snap to the bottom-right quadrant"
	case ActionSouthWest:
		return "snap to the bottom-left quadrant"
	case ActionCenter:
		return "center the window without resizing"
	case ActionFullscreen:
		return "fill the monitor, remembering the current geometry"
	case ActionUnscreen:
		return "restore the remembered geometry"
	case ActionToggleFullscreen:
		return "toggle between fullscreen and the remembered geometry"
	case ActionToggleDisplay:
		return "move the window to the next monitor"
	case ActionClearCache:
		return "forget all remembered geometries"
	}
	return "unknown action"
}
