package snap

import (
	"fmt"
	"math"
	"time"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
)

// Frames returns the intermediate geometries of a linear move between two
// rectangles, one per frame. Interpolated values are rounded to whole
// pixels; the final frame is forced to the exact destination so rounding
// never drifts the endpoint.
func Frames(from, to platform.Rect, count int) []platform.Rect {
	if count < 1 {
		count = 1
	}

	frames := make([]platform.Rect, count)
	for i := 1; i < count; i++ {
		frames[i-1] = platform.Rect{
			X:      lerp(from.X, to.X, i, count),
			Y:      lerp(from.Y, to.Y, i, count),
			Width:  lerp(from.Width, to.Width, i, count),
			Height: lerp(from.Height, to.Height, i, count),
		}
	}
	frames[count-1] = to

	return frames
}

// lerp returns from + (to-from)*i/n rounded to the nearest integer.
func lerp(from, to, i, n int) int {
	return from + int(math.Round(float64(to-from)*float64(i)/float64(n)))
}

// Animator replays a frame sequence against a backend at a fixed interval.
type Animator struct {
	backend  platform.Backend
	frames   int
	interval time.Duration
	sleep    func(time.Duration)
}

// NewAnimator creates an animator issuing frames move/resize instructions
// spread evenly across duration.
func NewAnimator(backend platform.Backend, frames int, duration time.Duration) *Animator {
	if frames < 1 {
		frames = 1
	}
	return &Animator{
		backend:  backend,
		frames:   frames,
		interval: duration / time.Duration(frames),
		sleep:    time.Sleep,
	}
}

// Move animates a window from one geometry to another. On failure the
// remaining frames are abandoned and the window stays at the last applied
// intermediate geometry; there is no rollback.
func (a *Animator) Move(id platform.WindowID, from, to platform.Rect) error {
	for i, frame := range Frames(from, to, a.frames) {
		if err := a.backend.MoveResize(id, frame); err != nil {
			return fmt.Errorf("%w: frame %d/%d: %v", ErrMoveFailed, i+1, a.frames, err)
		}
		a.sleep(a.interval)
	}
	return nil
}
