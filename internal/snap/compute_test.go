package snap

import (
	"errors"
	"testing"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
)

func testDisplay(id, x, y, width, height int) platform.Display {
	bounds := platform.Rect{X: x, Y: y, Width: width, Height: height}
	return platform.Display{
		ID:     id,
		Name:   "TEST",
		Bounds: bounds,
		Usable: bounds,
	}
}

func TestComputePlacement_SingleMonitorRegions(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	cases := []struct {
		action Action
		want   platform.Rect
	}{
		{ActionNorth, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 540}},
		{ActionSouth, platform.Rect{X: 0, Y: 540, Width: 1920, Height: 540}},
		{ActionEast, platform.Rect{X: 960, Y: 0, Width: 960, Height: 1080}},
		{ActionWest, platform.Rect{X: 0, Y: 0, Width: 960, Height: 1080}},
		{ActionNorthWest, platform.Rect{X: 0, Y: 0, Width: 960, Height: 540}},
		{ActionNorthEast, platform.Rect{X: 960, Y: 0, Width: 960, Height: 540}},
		{ActionSouthWest, platform.Rect{X: 0, Y: 540, Width: 960, Height: 540}},
		{ActionSouthEast, platform.Rect{X: 960, Y: 540, Width: 960, Height: 540}},
		// (1920-400)/2 = 760, (1080-300)/2 = 390.
		{ActionCenter, platform.Rect{X: 760, Y: 390, Width: 400, Height: 300}},
		{ActionFullscreen, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
	}

	for _, tc := range cases {
		got, err := ComputePlacement(tc.action, win, displays, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.action, err)
		}
		if got.Target != tc.want {
			t.Fatalf("%s: target = %+v, want %+v", tc.action, got.Target, tc.want)
		}
	}
}

func TestComputePlacement_HalvesTileOddDimensions(t *testing.T) {
	// 1921x1081 splits into 960+961 and 540+541.
	displays := []platform.Display{testDisplay(0, 0, 0, 1921, 1081)}
	win := platform.Rect{X: 50, Y: 50, Width: 200, Height: 200}

	north, err := ComputePlacement(ActionNorth, win, displays, nil)
	if err != nil {
		t.Fatalf("N: unexpected error: %v", err)
	}
	south, err := ComputePlacement(ActionSouth, win, displays, nil)
	if err != nil {
		t.Fatalf("S: unexpected error: %v", err)
	}

	if north.Target.Height+south.Target.Height != 1081 {
		t.Fatalf("N+S heights = %d, want 1081", north.Target.Height+south.Target.Height)
	}
	if south.Target.Y != north.Target.Y+north.Target.Height {
		t.Fatalf("S starts at %d, want %d (no gap, no overlap)", south.Target.Y, north.Target.Y+north.Target.Height)
	}

	west, err := ComputePlacement(ActionWest, win, displays, nil)
	if err != nil {
		t.Fatalf("W: unexpected error: %v", err)
	}
	east, err := ComputePlacement(ActionEast, win, displays, nil)
	if err != nil {
		t.Fatalf("E: unexpected error: %v", err)
	}

	if west.Target.Width+east.Target.Width != 1921 {
		t.Fatalf("W+E widths = %d, want 1921", west.Target.Width+east.Target.Width)
	}
	if east.Target.X != west.Target.X+west.Target.Width {
		t.Fatalf("E starts at %d, want %d (no gap, no overlap)", east.Target.X, west.Target.X+west.Target.Width)
	}
}

func TestComputePlacement_RegionsRespectUsableArea(t *testing.T) {
	// A 30px panel at the top: usable area starts at y=30.
	display := testDisplay(0, 0, 0, 1920, 1080)
	display.Usable = platform.Rect{X: 0, Y: 30, Width: 1920, Height: 1050}
	displays := []platform.Display{display}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	got, err := ComputePlacement(ActionNorth, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := platform.Rect{X: 0, Y: 30, Width: 1920, Height: 525}
	if got.Target != want {
		t.Fatalf("target = %+v, want %+v", got.Target, want)
	}

	full, err := ComputePlacement(ActionFullscreen, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Target != display.Usable {
		t.Fatalf("fullscreen target = %+v, want usable %+v", full.Target, display.Usable)
	}
}

func TestComputePlacement_DirectionalSavesCurrentGeometry(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	got, err := ComputePlacement(ActionNorth, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Save == nil || *got.Save != win {
		t.Fatalf("Save = %+v, want %+v", got.Save, win)
	}
	if got.ClearSaved {
		t.Fatal("ClearSaved = true, want false")
	}
}

func TestComputePlacement_FullscreenSavesOnlyWhenUnsaved(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	first, err := ComputePlacement(ActionFullscreen, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Save == nil || *first.Save != win {
		t.Fatalf("Save = %+v, want %+v", first.Save, win)
	}

	// A second F with an existing save must not clobber it.
	saved := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	second, err := ComputePlacement(ActionFullscreen, first.Target, displays, &saved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Save != nil {
		t.Fatalf("Save on repeated fullscreen = %+v, want nil", second.Save)
	}
}

func TestComputePlacement_UnscreenRestoresAndClears(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	saved := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	got, err := ComputePlacement(ActionUnscreen, win, displays, &saved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Target != saved {
		t.Fatalf("target = %+v, want saved %+v", got.Target, saved)
	}
	if !got.ClearSaved {
		t.Fatal("ClearSaved = false, want true")
	}
	if got.NoOp {
		t.Fatal("NoOp = true, want false")
	}
}

func TestComputePlacement_UnscreenWithoutSaveIsNoOp(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	got, err := ComputePlacement(ActionUnscreen, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.NoOp {
		t.Fatal("NoOp = false, want true")
	}
}

func TestComputePlacement_ToggleFullscreenArms(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	full := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	// Not fullscreen: behaves as F.
	enter, err := ComputePlacement(ActionToggleFullscreen, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enter.Target != full {
		t.Fatalf("enter target = %+v, want %+v", enter.Target, full)
	}
	if enter.Save == nil || *enter.Save != win {
		t.Fatalf("enter Save = %+v, want %+v", enter.Save, win)
	}

	// Exactly fullscreen: behaves as U.
	exit, err := ComputePlacement(ActionToggleFullscreen, full, displays, &win)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exit.Target != win {
		t.Fatalf("exit target = %+v, want %+v", exit.Target, win)
	}
	if !exit.ClearSaved {
		t.Fatal("exit ClearSaved = false, want true")
	}

	// Fullscreen with nothing saved: nothing to restore.
	stuck, err := ComputePlacement(ActionToggleFullscreen, full, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stuck.NoOp {
		t.Fatal("NoOp = false, want true")
	}
}

func TestComputePlacement_ToggleDisplayTranslatesBetweenEqualMonitors(t *testing.T) {
	displays := []platform.Display{
		testDisplay(0, 0, 0, 1920, 1080),
		testDisplay(1, 1920, 0, 1920, 1080),
	}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	got, err := ComputePlacement(ActionToggleDisplay, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Equal monitors: pure translation by the monitor width.
	want := platform.Rect{X: 2020, Y: 100, Width: 400, Height: 300}
	if got.Target != want {
		t.Fatalf("target = %+v, want %+v", got.Target, want)
	}
	if got.Display.ID != 1 {
		t.Fatalf("display = %d, want 1", got.Display.ID)
	}
	if got.Save == nil || *got.Save != win {
		t.Fatalf("Save = %+v, want %+v", got.Save, win)
	}
}

func TestComputePlacement_ToggleDisplayWrapsToFirst(t *testing.T) {
	displays := []platform.Display{
		testDisplay(0, 0, 0, 1920, 1080),
		testDisplay(1, 1920, 0, 1920, 1080),
	}
	// Window centered on the rightmost monitor.
	win := platform.Rect{X: 2020, Y: 100, Width: 400, Height: 300}

	got, err := ComputePlacement(ActionToggleDisplay, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Display.ID != 0 {
		t.Fatalf("display = %d, want 0 (wrap around)", got.Display.ID)
	}
	want := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	if got.Target != want {
		t.Fatalf("target = %+v, want %+v", got.Target, want)
	}
}

func TestComputePlacement_ToggleDisplayScalesProportionally(t *testing.T) {
	displays := []platform.Display{
		testDisplay(0, 0, 0, 1920, 1080),
		testDisplay(1, 1920, 0, 960, 540),
	}
	// Left half of the first monitor.
	win := platform.Rect{X: 0, Y: 0, Width: 960, Height: 1080}

	got, err := ComputePlacement(ActionToggleDisplay, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Half the size on a half-size monitor: still the left half.
	want := platform.Rect{X: 1920, Y: 0, Width: 480, Height: 540}
	if got.Target != want {
		t.Fatalf("target = %+v, want %+v", got.Target, want)
	}
}

func TestComputePlacement_ToggleDisplayRequiresTwoMonitors(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	_, err := ComputePlacement(ActionToggleDisplay, win, displays, nil)
	if !errors.Is(err, ErrNoSecondaryMonitor) {
		t.Fatalf("error = %v, want ErrNoSecondaryMonitor", err)
	}
}

func TestComputePlacement_UsesMonitorContainingWindowCenter(t *testing.T) {
	displays := []platform.Display{
		testDisplay(0, 0, 0, 1920, 1080),
		testDisplay(1, 1920, 0, 1280, 1024),
	}
	// Center at (2120, 250): second monitor.
	win := platform.Rect{X: 1920, Y: 100, Width: 400, Height: 300}

	got, err := ComputePlacement(ActionWest, win, displays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := platform.Rect{X: 1920, Y: 0, Width: 640, Height: 1024}
	if got.Target != want {
		t.Fatalf("target = %+v, want %+v", got.Target, want)
	}
}

func TestComputePlacement_WindowOutsideAllMonitors(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 5000, Y: 5000, Width: 400, Height: 300}

	_, err := ComputePlacement(ActionNorth, win, displays, nil)
	if !errors.Is(err, ErrGeometryUnavailable) {
		t.Fatalf("error = %v, want ErrGeometryUnavailable", err)
	}
}

func TestComputePlacement_RejectsDegenerateGeometry(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}

	_, err := ComputePlacement(ActionNorth, platform.Rect{X: 10, Y: 10}, displays, nil)
	if !errors.Is(err, ErrGeometryUnavailable) {
		t.Fatalf("zero-size window: error = %v, want ErrGeometryUnavailable", err)
	}

	_, err = ComputePlacement(ActionNorth, platform.Rect{X: 10, Y: 10, Width: 100, Height: 100}, nil, nil)
	if !errors.Is(err, ErrGeometryUnavailable) {
		t.Fatalf("no monitors: error = %v, want ErrGeometryUnavailable", err)
	}
}

func TestComputePlacement_RejectsClearCache(t *testing.T) {
	displays := []platform.Display{testDisplay(0, 0, 0, 1920, 1080)}
	win := platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	_, err := ComputePlacement(ActionClearCache, win, displays, nil)
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("error = %v, want ErrInvalidAction", err)
	}
}
