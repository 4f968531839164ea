package snap

import (
	"fmt"
	"math"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
)

// Placement is the computed outcome of one action for one window.
type Placement struct {
	// Target is the destination geometry.
	Target platform.Rect
	// Display owns the target rectangle.
	Display platform.Display
	// Save, when non-nil, is the geometry to persist before the move.
	Save *platform.Rect
	// ClearSaved marks the window's saved entry for removal after a
	// successful move.
	ClearSaved bool
	// NoOp reports that nothing needs to move (unscreen with nothing
	// saved).
	NoOp bool
}

// ComputePlacement resolves an action against a window's current geometry.
// displays must be ordered left to right; saved is the window's stored
// pre-move geometry, or nil. The function is pure: persistence and motion
// are the caller's job. ActionClearCache is not a placement and is
// rejected.
func ComputePlacement(action Action, win platform.Rect, displays []platform.Display, saved *platform.Rect) (Placement, error) {
	if win.Width <= 0 || win.Height <= 0 {
		return Placement{}, fmt.Errorf("%w: window reports size %dx%d", ErrGeometryUnavailable, win.Width, win.Height)
	}
	if len(displays) == 0 {
		return Placement{}, fmt.Errorf("%w: no monitors detected", ErrGeometryUnavailable)
	}

	disp, err := DisplayFor(win, displays)
	if err != nil {
		return Placement{}, err
	}

	area := disp.Usable
	placement := Placement{Display: disp}

	switch action {
	case ActionNorth:
		placement.Target = platform.Rect{X: area.X, Y: area.Y, Width: area.Width, Height: area.Height / 2}
		placement.Save = &win

	case ActionSouth:
		// The second half takes the remainder so both halves tile the
		// full axis even when the dimension is odd.
		placement.Target = platform.Rect{X: area.X, Y: area.Y + area.Height/2, Width: area.Width, Height: area.Height - area.Height/2}
		placement.Save = &win

	case ActionWest:
		placement.Target = platform.Rect{X: area.X, Y: area.Y, Width: area.Width / 2, Height: area.Height}
		placement.Save = &win

	case ActionEast:
		placement.Target = platform.Rect{X: area.X + area.Width/2, Y: area.Y, Width: area.Width - area.Width/2, Height: area.Height}
		placement.Save = &win

	case ActionNorthWest:
		placement.Target = platform.Rect{X: area.X, Y: area.Y, Width: area.Width / 2, Height: area.Height / 2}
		placement.Save = &win

	case ActionNorthEast:
		placement.Target = platform.Rect{X: area.X + area.Width/2, Y: area.Y, Width: area.Width - area.Width/2, Height: area.Height / 2}
		placement.Save = &win

	case ActionSouthWest:
		placement.Target = platform.Rect{X: area.X, Y: area.Y + area.Height/2, Width: area.Width / 2, Height: area.Height - area.Height/2}
		placement.Save = &win

	case ActionSouthEast:
		placement.Target = platform.Rect{X: area.X + area.Width/2, Y: area.Y + area.Height/2, Width: area.Width - area.Width/2, Height: area.Height - area.Height/2}
		placement.Save = &win

	case ActionCenter:
		placement.Target = platform.Rect{
			X:      area.X + (area.Width-win.Width)/2,
			Y:      area.Y + (area.Height-win.Height)/2,
			Width:  win.Width,
			Height: win.Height,
		}
		placement.Save = &win

	case ActionFullscreen:
		placement.Target = area
		// Repeated presses must not clobber the pre-fullscreen geometry.
		if saved == nil {
			placement.Save = &win
		}

	case ActionUnscreen:
		if saved == nil {
			placement.NoOp = true
			return placement, nil
		}
		placement.Target = *saved
		placement.ClearSaved = true

	case ActionToggleFullscreen:
		if win == area {
			if saved == nil {
				placement.NoOp = true
				return placement, nil
			}
			placement.Target = *saved
			placement.ClearSaved = true
		} else {
			placement.Target = area
			if saved == nil {
				placement.Save = &win
			}
		}

	case ActionToggleDisplay:
		if len(displays) < 2 {
			return Placement{}, fmt.Errorf("%w: %d monitor connected", ErrNoSecondaryMonitor, len(displays))
		}
		next := nextDisplay(disp, displays)
		placement.Display = next
		placement.Target = reproject(win, area, next.Usable)
		placement.Save = &win

	case ActionClearCache:
		return Placement{}, fmt.Errorf("%w: %q is not a placement action", ErrInvalidAction, action)

	default:
		return Placement{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	return placement, nil
}

// DisplayFor returns the display whose bounds contain the window's center.
func DisplayFor(win platform.Rect, displays []platform.Display) (platform.Display, error) {
	cx, cy := win.Center()
	for _, d := range displays {
		if d.Bounds.Contains(cx, cy) {
			return d, nil
		}
	}
	return platform.Display{}, fmt.Errorf("%w: no monitor contains point (%d,%d)", ErrGeometryUnavailable, cx, cy)
}

// nextDisplay returns the display after current in list order, wrapping to
// the first.
func nextDisplay(current platform.Display, displays []platform.Display) platform.Display {
	for i, d := range displays {
		if d.ID == current.ID {
			return displays[(i+1)%len(displays)]
		}
	}
	return displays[0]
}

// reproject maps a window rectangle from one monitor's usable area onto
// another's, preserving the relative position and size fractions. Between
// monitors of equal size this is a pure translation.
func reproject(win, src, dst platform.Rect) platform.Rect {
	out := platform.Rect{
		X:      dst.X + scale(win.X-src.X, dst.Width, src.Width),
		Y:      dst.Y + scale(win.Y-src.Y, dst.Height, src.Height),
		Width:  scale(win.Width, dst.Width, src.Width),
		Height: scale(win.Height, dst.Height, src.Height),
	}

	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}

	return out
}

// scale returns v*num/den rounded to the nearest integer.
func scale(v, num, den int) int {
	if den == 0 {
		return v
	}
	return int(math.Round(float64(v) * float64(num) / float64(den)))
}
