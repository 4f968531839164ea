package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the rectangle's center point.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Display describes a physical display and its usable work area.
// Usable is Bounds minus any dock struts reported by the window manager.
type Display struct {
	ID      int
	Name    string
	Primary bool
	Bounds  Rect
	Usable  Rect
}

// Backend abstracts window-system operations so the snap engine can run
// against a real X server or an in-memory fake.
type Backend interface {
	// Displays returns all connected displays ordered left to right by
	// x-origin.
	Displays() ([]Display, error)
	// ActiveWindow returns the currently focused top-level window.
	ActiveWindow() (WindowID, error)
	// WindowRect returns a window's geometry in absolute screen coordinates.
	WindowRect(id WindowID) (Rect, error)
	// MoveResize moves and resizes a window in one operation.
	MoveResize(id WindowID, bounds Rect) error
	// ListWindows returns the ids of all managed top-level windows.
	ListWindows() ([]WindowID, error)
}
