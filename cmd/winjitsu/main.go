package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Evilchuck666/WinJitsu/internal/config"
	"github.com/Evilchuck666/WinJitsu/internal/daemon"
	"github.com/Evilchuck666/WinJitsu/internal/hotkeys"
	"github.com/Evilchuck666/WinJitsu/internal/ipc"
	"github.com/Evilchuck666/WinJitsu/internal/logging"
	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/snap"
	"github.com/Evilchuck666/WinJitsu/internal/state"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	keyColor     = color.New(color.FgYellow)
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: winjitsu daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: winjitsu daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "saved":
		os.Exit(runSaved(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		os.Exit(runSnap(os.Args[1], os.Args[2:]))
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winjitsu <action|command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Actions (applied to the active window):")
	for _, action := range snap.Actions() {
		fmt.Fprintf(w, "  %-4s %s\n", action, action.Description())
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the winjitsu daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List connected monitors")
	fmt.Fprintln(w, "  saved               List saved window geometries")
	fmt.Fprintln(w, "  config              Print the effective configuration")
	fmt.Fprintln(w, "  mcp                 Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winjitsu <command> --help' for command-specific options.")
}

// runSnap executes a single action. When a daemon is running the action is
// delegated over IPC so hotkey and CLI snaps share one animation queue;
// otherwise this process drives X directly.
func runSnap(code string, args []string) int {
	action, err := snap.ParseAction(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unknown command or action: %s\n\n", code)
		printMainUsage(os.Stderr)
		return 2
	}
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", action)
		return 2
	}

	client := ipc.NewClient()
	if client.Ping() == nil {
		data, err := client.Snap(string(action))
		if err != nil {
			errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
			return 1
		}
		printSnapResult(action, data.WindowID, data.To, data.NoOp)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "✗ failed to connect to display: %v\n", err)
		return 1
	}
	defer backend.Disconnect()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	engine := snap.NewEngine(backend, store, settingsFromConfig(cfg), logger)
	result, err := engine.Apply(action)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
		return 1
	}

	printSnapResult(action, uint32(result.WindowID), ipc.RectInfo{
		X:      result.To.X,
		Y:      result.To.Y,
		Width:  result.To.Width,
		Height: result.To.Height,
	}, result.NoOp)
	return 0
}

func printSnapResult(action snap.Action, windowID uint32, to ipc.RectInfo, noOp bool) {
	switch {
	case action == snap.ActionClearCache:
		successColor.Println("✓ saved states cleared")
	case noOp:
		infoColor.Println("nothing to restore")
	default:
		successColor.Printf("✓ %s: window 0x%08x now at %s\n", action, windowID, geom(to.Width, to.Height, to.X, to.Y))
	}
}

// geom renders a rectangle in X geometry notation, WxH+X+Y.
func geom(width, height, x, y int) string {
	return fmt.Sprintf("%dx%d%+d%+d", width, height, x, y)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winjitsu status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(status)
	}

	keyColor.Print("Daemon:   ")
	fmt.Println("running")
	keyColor.Print("Uptime:   ")
	fmt.Println(time.Duration(status.UptimeSeconds) * time.Second)
	keyColor.Print("Monitors: ")
	fmt.Println(status.MonitorCount)
	keyColor.Print("Saved:    ")
	fmt.Println(status.SavedStates)
	keyColor.Print("Hotkeys:  ")
	fmt.Println(status.Hotkeys)
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winjitsu monitors [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List connected monitors, left to right. Uses the daemon when running,")
		fmt.Fprintln(os.Stderr, "otherwise connects to the display directly.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output monitors as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	monitors, err := fetchMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(ipc.MonitorsData{Monitors: monitors})
	}

	for _, m := range monitors {
		marker := " "
		if m.Primary {
			marker = "*"
		}
		fmt.Printf("%s %d: %-10s %-18s usable %s\n",
			marker, m.ID, m.Name,
			geom(m.Bounds.Width, m.Bounds.Height, m.Bounds.X, m.Bounds.Y),
			geom(m.Usable.Width, m.Usable.Height, m.Usable.X, m.Usable.Y))
	}
	return 0
}

func fetchMonitors() ([]ipc.MonitorInfo, error) {
	client := ipc.NewClient()
	if client.Ping() == nil {
		data, err := client.GetMonitors()
		if err != nil {
			return nil, err
		}
		return data.Monitors, nil
	}

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	displays, err := backend.Displays()
	if err != nil {
		return nil, err
	}

	monitors := make([]ipc.MonitorInfo, len(displays))
	for i, d := range displays {
		monitors[i] = ipc.MonitorInfo{
			ID:      d.ID,
			Name:    d.Name,
			Primary: d.Primary,
			Bounds:  ipc.RectInfo{X: d.Bounds.X, Y: d.Bounds.Y, Width: d.Bounds.Width, Height: d.Bounds.Height},
			Usable:  ipc.RectInfo{X: d.Usable.X, Y: d.Usable.Y, Width: d.Usable.Width, Height: d.Usable.Height},
		}
	}
	return monitors, nil
}

func runSaved(args []string) int {
	fs := flag.NewFlagSet("saved", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winjitsu saved [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List cached pre-snap window geometries.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output saved states as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "saved takes no arguments")
		fs.Usage()
		return 2
	}

	states, err := fetchSaved()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(ipc.SavedData{States: states})
	}

	if len(states) == 0 {
		fmt.Println("no saved states")
		return 0
	}
	for _, s := range states {
		fmt.Printf("- 0x%08x: %s (saved %s)\n",
			s.WindowID,
			geom(s.Geometry.Width, s.Geometry.Height, s.Geometry.X, s.Geometry.Y),
			s.SavedAt.Format(time.RFC3339))
	}
	return 0
}

func fetchSaved() ([]ipc.SavedStateInfo, error) {
	client := ipc.NewClient()
	if client.Ping() == nil {
		data, err := client.GetSaved()
		if err != nil {
			return nil, err
		}
		return data.States, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	entries, err := store.List()
	if err != nil {
		return nil, err
	}

	states := make([]ipc.SavedStateInfo, len(entries))
	for i, e := range entries {
		states[i] = ipc.SavedStateInfo{
			WindowID: e.WindowID,
			Geometry: ipc.RectInfo{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height},
			SavedAt:  e.SavedAt,
		}
	}
	return states, nil
}

func runConfig(args []string) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winjitsu config [--init] [--reload]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Without flags, print the effective configuration as YAML.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	initConfig := fs.Bool("init", false, "Write the default config file if none exists")
	reload := fs.Bool("reload", false, "Ask a running daemon to reload its configuration")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "config takes no arguments")
		fs.Usage()
		return 2
	}

	if *initConfig {
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "config already exists at %s\n", path)
			return 1
		}
		if err := config.DefaultConfig().Save(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		successColor.Printf("✓ wrote %s\n", path)
		return 0
	}

	if *reload {
		if err := ipc.NewClient().Reload(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		successColor.Println("✓ daemon configuration reloaded")
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(string(data))
	return 0
}

func printJSON(v interface{}) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	logger := daemonLogger(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Info().
		Int("frames", cfg.AnimationFrames()).
		Dur("duration", cfg.AnimationDuration()).
		Msg("configuration loaded")

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to display")
	}
	defer backend.Disconnect()

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open saved-state store")
	}

	engine := snap.NewEngine(backend, store, settingsFromConfig(cfg), logger)
	logger.Info().Msg("winjitsu daemon started")

	// Bind global hotkeys
	handler := hotkeys.NewHandler(backend, engine, logger)
	registered := registerHotkeys(handler, cfg, logger)
	logger.Info().Int("count", registered).Msg("hotkeys registered")

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(cfg, engine, backend, store, reloadChan, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create IPC server")
	}
	ipcServer.SetHotkeyCount(registered)
	if err := ipcServer.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start IPC server")
	}
	defer ipcServer.Stop()

	// Prune saved states for windows that disappeared while no daemon ran,
	// then keep pruning in the background.
	janitor := daemon.NewJanitor(daemon.JanitorConfig{
		Interval: 30 * time.Second,
		Logger:   logger,
	}, store, daemon.ListerFromBackend(backend))
	janitor.PruneNow()

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	go janitor.Run(janitorCtx)

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	// Handle signals and config reloads
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info().Msg("received SIGHUP, reloading config")
					newCfg, err := config.Load()
					if err != nil {
						logger.Error().Err(err).Msg("config reload failed")
						continue
					}
					ipcServer.UpdateConfig(newCfg)
					engine.UpdateSettings(settingsFromConfig(newCfg))
					logger.Info().Msg("config reloaded (hotkey changes require a restart)")

				case os.Interrupt, syscall.SIGTERM:
					logger.Info().Msg("shutting down winjitsu daemon")
					janitorCancel()
					ipcServer.Stop()
					os.Exit(0)
				}

			case <-reloadChan:
				// Config was reloaded via IPC, update the engine
				newCfg := ipcServer.GetConfig()
				engine.UpdateSettings(settingsFromConfig(newCfg))
				logger.Info().Msg("settings updated from reloaded config")
			}
		}
	}()

	// Start event loop (blocking)
	logger.Info().Msg("entering event loop")
	backend.EventLoop()
}

func registerHotkeys(handler *hotkeys.Handler, cfg *config.Config, logger zerolog.Logger) int {
	registered := 0
	for code, sequence := range cfg.Hotkeys {
		if sequence == "" {
			continue
		}
		action, err := snap.ParseAction(code)
		if err != nil {
			logger.Warn().Str("action", code).Msg("skipping hotkey for unknown action")
			continue
		}
		if err := handler.Register(action, sequence); err != nil {
			logger.Warn().Err(err).Str("action", code).Str("key", sequence).Msg("failed to register hotkey")
			continue
		}
		logger.Debug().Str("action", code).Str("key", sequence).Msg("hotkey registered")
		registered++
	}
	return registered
}

// daemonLogger builds the daemon's logger, falling back to defaults when
// configuration loading failed.
func daemonLogger(cfg *config.Config) zerolog.Logger {
	if cfg == nil {
		return logging.Setup("info", "auto")
	}
	return logging.Setup(cfg.LogLevel, cfg.LogFormat)
}

func settingsFromConfig(cfg *config.Config) snap.Settings {
	return snap.Settings{
		Frames:   cfg.AnimationFrames(),
		Duration: cfg.AnimationDuration(),
		Padding: snap.Padding{
			Top:    cfg.Padding.Top,
			Bottom: cfg.Padding.Bottom,
			Left:   cfg.Padding.Left,
			Right:  cfg.Padding.Right,
		},
	}
}

// openStore resolves the cache directory, preferring the configured override.
func openStore(cfg *config.Config) (state.Store, error) {
	dir := cfg.CacheDir
	if dir == "" {
		var err error
		dir, err = state.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return state.NewFileStore(dir), nil
}
