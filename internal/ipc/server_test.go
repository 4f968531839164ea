package ipc

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Evilchuck666/WinJitsu/internal/config"
	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/snap"
	"github.com/Evilchuck666/WinJitsu/internal/state"
)

// startTestServer wires a real engine over a fake backend to a server on a
// private socket under a per-test runtime dir.
func startTestServer(t *testing.T) (*Server, *platform.FakeBackend, state.Store) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	backend := platform.NewFakeBackend(platform.Display{
		ID:      0,
		Name:    "HDMI-1",
		Primary: true,
		Bounds:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		Usable:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	})
	backend.AddWindow(7, platform.Rect{X: 100, Y: 100, Width: 400, Height: 300})

	store := state.NewMemStore()
	// One instant frame keeps tests fast.
	engine := snap.NewEngine(backend, store, snap.Settings{Frames: 1}, zerolog.Nop())

	srv, err := NewServer(config.DefaultConfig(), engine, backend, store, make(chan struct{}, 1), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(srv.Stop)

	return srv, backend, store
}

func TestServerClient_SnapRoundTrip(t *testing.T) {
	_, backend, _ := startTestServer(t)

	data, err := NewClient().Snap("N")
	if err != nil {
		t.Fatalf("Snap(N) error = %v", err)
	}

	want := RectInfo{X: 0, Y: 0, Width: 1920, Height: 540}
	if data.To != want {
		t.Errorf("Snap(N).To = %+v, want %+v", data.To, want)
	}
	if data.WindowID != 7 {
		t.Errorf("Snap(N).WindowID = %d, want 7", data.WindowID)
	}
	if len(backend.MoveCalls) == 0 {
		t.Error("backend recorded no moves")
	}
}

func TestServerClient_SnapAcceptsLowercase(t *testing.T) {
	startTestServer(t)

	data, err := NewClient().Snap("se")
	if err != nil {
		t.Fatalf("Snap(se) error = %v", err)
	}
	want := RectInfo{X: 960, Y: 540, Width: 960, Height: 540}
	if data.To != want {
		t.Errorf("Snap(se).To = %+v, want %+v", data.To, want)
	}
}

func TestServerClient_SnapRejectsUnknownAction(t *testing.T) {
	startTestServer(t)

	if _, err := NewClient().Snap("sideways"); err == nil {
		t.Fatal("Snap(sideways) error = nil, want invalid action error")
	}
}

func TestServerClient_GetMonitors(t *testing.T) {
	startTestServer(t)

	data, err := NewClient().GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors() error = %v", err)
	}
	if len(data.Monitors) != 1 {
		t.Fatalf("len(Monitors) = %d, want 1", len(data.Monitors))
	}
	mon := data.Monitors[0]
	if mon.Name != "HDMI-1" || !mon.Primary {
		t.Errorf("monitor = %+v, want primary HDMI-1", mon)
	}
	if mon.Bounds != (RectInfo{X: 0, Y: 0, Width: 1920, Height: 1080}) {
		t.Errorf("Bounds = %+v, want full screen", mon.Bounds)
	}
}

func TestServerClient_SavedStatesFollowFullscreen(t *testing.T) {
	startTestServer(t)

	c := NewClient()
	if _, err := c.Snap("F"); err != nil {
		t.Fatalf("Snap(F) error = %v", err)
	}

	saved, err := c.GetSaved()
	if err != nil {
		t.Fatalf("GetSaved() error = %v", err)
	}
	if len(saved.States) != 1 {
		t.Fatalf("len(States) = %d, want 1", len(saved.States))
	}
	got := saved.States[0]
	if got.WindowID != 7 {
		t.Errorf("WindowID = %d, want 7", got.WindowID)
	}
	if got.Geometry != (RectInfo{X: 100, Y: 100, Width: 400, Height: 300}) {
		t.Errorf("Geometry = %+v, want pre-fullscreen rect", got.Geometry)
	}

	if err := c.ClearCache(); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	saved, err = c.GetSaved()
	if err != nil {
		t.Fatalf("GetSaved() after clear error = %v", err)
	}
	if len(saved.States) != 0 {
		t.Errorf("len(States) after clear = %d, want 0", len(saved.States))
	}
}

func TestServerClient_StatusReportsCounts(t *testing.T) {
	srv, _, store := startTestServer(t)
	srv.SetHotkeyCount(13)
	if err := store.Put(state.Entry{WindowID: 9, X: 1, Y: 2, Width: 3, Height: 4}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	status, err := NewClient().GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if !status.DaemonRunning {
		t.Error("DaemonRunning = false, want true")
	}
	if status.MonitorCount != 1 {
		t.Errorf("MonitorCount = %d, want 1", status.MonitorCount)
	}
	if status.SavedStates != 1 {
		t.Errorf("SavedStates = %d, want 1", status.SavedStates)
	}
	if status.Hotkeys != 13 {
		t.Errorf("Hotkeys = %d, want 13", status.Hotkeys)
	}
}

func TestServerClient_UnknownCommandErrors(t *testing.T) {
	startTestServer(t)

	_, err := NewClient().sendRequest(&Request{Command: CommandType("DANCE")})
	if err == nil {
		t.Fatal("sendRequest(DANCE) error = nil, want unknown command error")
	}
}

func TestServerClient_ReloadSignalsDaemon(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv, _, _ := startTestServer(t)

	if err := NewClient().Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	select {
	case <-srv.reloadChan:
	default:
		t.Error("reload did not signal the daemon channel")
	}
	if srv.GetConfig() == nil {
		t.Error("GetConfig() = nil after reload")
	}
}

func TestParseRequest_RejectsGarbage(t *testing.T) {
	if _, err := ParseRequest([]byte("not json\n")); err == nil {
		t.Fatal("ParseRequest() error = nil, want parse error")
	}
}

func TestNewOKResponse_EmbedsData(t *testing.T) {
	resp, err := NewOKResponse(StatusData{DaemonRunning: true})
	if err != nil {
		t.Fatalf("NewOKResponse() error = %v", err)
	}
	if resp.Status != "OK" {
		t.Errorf("Status = %q, want OK", resp.Status)
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("Unmarshal(Data) error = %v", err)
	}
	if !status.DaemonRunning {
		t.Error("DaemonRunning = false, want true")
	}
}
