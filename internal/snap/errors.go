package snap

import "errors"

// Failure kinds surfaced by snapping operations. Callers match them with
// errors.Is; wrapped messages carry the specifics.
var (
	// ErrInvalidAction reports an unrecognized action code.
	ErrInvalidAction = errors.New("invalid action")
	// ErrGeometryUnavailable reports that the active window or its
	// geometry could not be determined, or that no monitor contains it.
	ErrGeometryUnavailable = errors.New("window geometry unavailable")
	// ErrNoSecondaryMonitor reports a display toggle with fewer than two
	// monitors connected.
	ErrNoSecondaryMonitor = errors.New("no secondary monitor")
	// ErrMoveFailed reports that a move/resize instruction was rejected,
	// typically because the window vanished mid-animation.
	ErrMoveFailed = errors.New("window move failed")
)
