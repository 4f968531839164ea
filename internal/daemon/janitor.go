package daemon

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/state"
)

// WindowLister is a function that returns current client window IDs.
type WindowLister func() ([]uint32, error)

// ListerFromBackend adapts a platform backend into a WindowLister.
func ListerFromBackend(backend platform.Backend) WindowLister {
	return func() ([]uint32, error) {
		ids, err := backend.ListWindows()
		if err != nil {
			return nil, err
		}
		out := make([]uint32, len(ids))
		for i, id := range ids {
			out[i] = uint32(id)
		}
		return out, nil
	}
}

// JanitorConfig holds configuration for the janitor.
type JanitorConfig struct {
	Interval time.Duration
	Logger   zerolog.Logger
}

// Janitor periodically prunes saved states whose windows no longer exist, so
// the cache does not accumulate entries for closed windows.
type Janitor struct {
	interval    time.Duration
	store       state.Store
	listWindows WindowLister
	log         zerolog.Logger
}

// NewJanitor creates a janitor over the given store. The listWindows function
// should return the window IDs currently known to the window manager.
func NewJanitor(cfg JanitorConfig, store state.Store, listWindows WindowLister) *Janitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Janitor{
		interval:    interval,
		store:       store,
		listWindows: listWindows,
		log:         cfg.Logger,
	}
}

// Run starts the pruning loop. Blocks until context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info().Dur("interval", j.interval).Msg("janitor started")

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("janitor stopped")
			return
		case <-ticker.C:
			j.prune()
		}
	}
}

// PruneNow triggers an immediate pruning pass.
func (j *Janitor) PruneNow() {
	j.prune()
}

// prune performs a single pruning pass.
func (j *Janitor) prune() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			j.log.Error().Interface("error", err).Msg("janitor panic recovered")
		}
	}()

	entries, err := j.store.List()
	if err != nil {
		j.log.Error().Err(err).Msg("janitor: failed to list saved states")
		return
	}
	if len(entries) == 0 {
		return
	}

	actualWindowIDs, err := j.listWindows()
	if err != nil {
		j.log.Error().Err(err).Msg("janitor: failed to list windows")
		return
	}

	actualIDs := make(map[uint32]bool)
	for _, wid := range actualWindowIDs {
		actualIDs[wid] = true
	}

	for _, entry := range entries {
		if actualIDs[entry.WindowID] {
			continue
		}
		if err := j.store.Delete(entry.WindowID); err != nil {
			j.log.Warn().Err(err).Uint32("window_id", entry.WindowID).Msg("janitor: failed to prune saved state")
			continue
		}
		j.log.Info().Uint32("window_id", entry.WindowID).Msg("janitor: pruned saved state for closed window")
	}
}
