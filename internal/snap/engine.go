package snap

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/state"
)

// Padding insets every monitor's usable area before placement.
type Padding struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Settings are the tunables consulted on each action. They are swapped
// whole on config reload.
type Settings struct {
	Frames   int
	Duration time.Duration
	Padding  Padding
}

// Result describes a completed action.
type Result struct {
	Action   Action
	WindowID platform.WindowID
	From     platform.Rect
	To       platform.Rect
	Display  string
	NoOp     bool
}

// Engine executes snapping actions: it resolves the active window and
// monitor topology through the backend, runs the placement calculator,
// persists saved geometry through the store, and animates the move.
// Actions serialize through an internal mutex, so a daemon dispatching
// from hotkeys and the control socket runs at most one animation at a
// time.
type Engine struct {
	mu       sync.Mutex
	backend  platform.Backend
	store    state.Store
	settings Settings
	sleep    func(time.Duration)
	log      zerolog.Logger
}

// NewEngine creates an engine moving windows through backend and keeping
// saved geometry in store.
func NewEngine(backend platform.Backend, store state.Store, settings Settings, logger zerolog.Logger) *Engine {
	return &Engine{
		backend:  backend,
		store:    store,
		settings: settings,
		sleep:    time.Sleep,
		log:      logger,
	}
}

// UpdateSettings swaps the animation and padding tunables.
func (e *Engine) UpdateSettings(settings Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings = settings
}

// Apply runs one action against the currently active window. The saved
// geometry is written before the animated move and cleared only after a
// successful restore, so an interrupted animation can still be reversed.
func (e *Engine) Apply(action Action) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if action == ActionClearCache {
		if err := e.store.Clear(); err != nil {
			return Result{}, fmt.Errorf("failed to clear saved geometry: %w", err)
		}
		e.log.Info().Msg("cleared all saved window geometry")
		return Result{Action: action}, nil
	}

	id, err := e.backend.ActiveWindow()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGeometryUnavailable, err)
	}

	win, err := e.backend.WindowRect(id)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGeometryUnavailable, err)
	}

	displays, err := e.backend.Displays()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGeometryUnavailable, err)
	}
	displays = insetDisplays(displays, e.settings.Padding)

	var saved *platform.Rect
	if entry, err := e.store.Get(uint32(id)); err != nil {
		return Result{}, err
	} else if entry != nil {
		rect := entry.Rect()
		saved = &rect
	}

	placement, err := ComputePlacement(action, win, displays, saved)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Action:   action,
		WindowID: id,
		From:     win,
		To:       placement.Target,
		Display:  placement.Display.Name,
		NoOp:     placement.NoOp,
	}

	if placement.NoOp {
		e.log.Debug().
			Str("action", string(action)).
			Uint32("window", uint32(id)).
			Msg("nothing to restore")
		return result, nil
	}

	if placement.Save != nil {
		if err := e.store.Put(state.NewEntry(id, *placement.Save)); err != nil {
			return Result{}, fmt.Errorf("failed to save window geometry: %w", err)
		}
	}

	animator := NewAnimator(e.backend, e.settings.Frames, e.settings.Duration)
	animator.sleep = e.sleep
	if err := animator.Move(id, win, placement.Target); err != nil {
		return Result{}, err
	}

	if placement.ClearSaved {
		if err := e.store.Delete(uint32(id)); err != nil {
			return Result{}, fmt.Errorf("failed to clear saved geometry: %w", err)
		}
	}

	e.log.Info().
		Str("action", string(action)).
		Uint32("window", uint32(id)).
		Str("display", placement.Display.Name).
		Int("x", placement.Target.X).
		Int("y", placement.Target.Y).
		Int("width", placement.Target.Width).
		Int("height", placement.Target.Height).
		Msg("window snapped")

	return result, nil
}

// insetDisplays applies padding to every display's usable area, leaving at
// least one pixel on each axis.
func insetDisplays(displays []platform.Display, padding Padding) []platform.Display {
	if padding == (Padding{}) {
		return displays
	}

	out := make([]platform.Display, len(displays))
	copy(out, displays)
	for i := range out {
		usable := &out[i].Usable
		usable.X += padding.Left
		usable.Y += padding.Top
		usable.Width -= padding.Left + padding.Right
		usable.Height -= padding.Top + padding.Bottom

		if usable.Width < 1 {
			usable.Width = 1
		}
		if usable.Height < 1 {
			usable.Height = 1
		}
	}
	return out
}
