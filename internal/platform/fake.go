package platform

import (
	"fmt"
	"sort"
)

// MoveCall records one MoveResize invocation against a FakeBackend.
type MoveCall struct {
	ID     WindowID
	Bounds Rect
}

// FakeBackend is an in-memory Backend. It serves geometry from plain maps
// and records every MoveResize call in order, so tests can drive the snap
// engine without a display server.
type FakeBackend struct {
	DisplayList []Display
	Active      WindowID
	Rects       map[WindowID]Rect
	MoveCalls   []MoveCall

	ActiveErr   error
	DisplaysErr error
	// FailMoveAt makes MoveResize fail from the n-th call on (1-based).
	// Zero disables failure injection.
	FailMoveAt int

	moveCount int
}

var _ Backend = (*FakeBackend)(nil)

// NewFakeBackend creates a fake backend serving the given displays.
func NewFakeBackend(displays ...Display) *FakeBackend {
	return &FakeBackend{
		DisplayList: displays,
		Rects:       make(map[WindowID]Rect),
	}
}

// AddWindow registers a window with the given geometry. The first window
// added becomes the active one.
func (f *FakeBackend) AddWindow(id WindowID, bounds Rect) {
	f.Rects[id] = bounds
	if f.Active == 0 {
		f.Active = id
	}
}

// RemoveWindow unregisters a window, as if it had been closed.
func (f *FakeBackend) RemoveWindow(id WindowID) {
	delete(f.Rects, id)
	if f.Active == id {
		f.Active = 0
	}
}

func (f *FakeBackend) Displays() ([]Display, error) {
	if f.DisplaysErr != nil {
		return nil, f.DisplaysErr
	}
	return f.DisplayList, nil
}

func (f *FakeBackend) ActiveWindow() (WindowID, error) {
	if f.ActiveErr != nil {
		return 0, f.ActiveErr
	}
	if f.Active == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return f.Active, nil
}

func (f *FakeBackend) WindowRect(id WindowID) (Rect, error) {
	bounds, ok := f.Rects[id]
	if !ok {
		return Rect{}, fmt.Errorf("window %d not found", id)
	}
	return bounds, nil
}

func (f *FakeBackend) MoveResize(id WindowID, bounds Rect) error {
	f.moveCount++
	if f.FailMoveAt > 0 && f.moveCount >= f.FailMoveAt {
		return fmt.Errorf("move rejected for window %d", id)
	}
	if _, ok := f.Rects[id]; !ok {
		return fmt.Errorf("window %d not found", id)
	}
	f.Rects[id] = bounds
	f.MoveCalls = append(f.MoveCalls, MoveCall{ID: id, Bounds: bounds})
	return nil
}

func (f *FakeBackend) ListWindows() ([]WindowID, error) {
	ids := make([]WindowID, 0, len(f.Rects))
	for id := range f.Rects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
