package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Evilchuck666/WinJitsu/internal/config"
	"github.com/Evilchuck666/WinJitsu/internal/logging"
	"github.com/Evilchuck666/WinJitsu/internal/mcp"
	"github.com/Evilchuck666/WinJitsu/internal/platform"
	"github.com/Evilchuck666/WinJitsu/internal/snap"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winjitsu mcp")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Start the MCP server on stdio. Exposes window snapping tools to")
	fmt.Fprintln(w, "AI assistants via the Model Context Protocol.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Example (Claude Code):")
	fmt.Fprintln(w, "  claude mcp add winjitsu -- winjitsu mcp")
}

// runMCP starts the MCP server on stdio. Logs go to stderr so they do not
// corrupt the protocol stream.
func runMCP(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "help", "-h", "--help":
			printMCPUsage(os.Stdout)
			return 0
		default:
			fmt.Fprintf(os.Stderr, "Unknown mcp argument: %s\n\n", args[0])
			printMCPUsage(os.Stderr)
			return 2
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to display: %v\n", err)
		return 1
	}
	defer backend.Disconnect()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	engine := snap.NewEngine(backend, store, settingsFromConfig(cfg), logger)
	server := mcp.NewServer(engine, backend, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("shutting down MCP server")
		cancel()
	}()

	logger.Info().Msg("starting MCP server on stdio")
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
