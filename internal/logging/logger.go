package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "auto", "console" or "json"
	TimeFormat string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "auto",
		TimeFormat: time.RFC3339,
	}
}

// New creates a zerolog logger writing to stderr. The "auto" format picks
// console output when stderr is a terminal and JSON otherwise.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stderr

	switch resolveFormat(cfg.Format) {
	case "console":
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: cfg.TimeFormat,
		}
	case "json":
		// JSON is the default zerolog format
		output = os.Stderr
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// Setup builds the process logger from config strings, honoring the
// WINJITSU_LOG_LEVEL and WINJITSU_LOG_FORMAT environment overrides.
func Setup(level, format string) zerolog.Logger {
	if env := os.Getenv("WINJITSU_LOG_LEVEL"); env != "" {
		switch env {
		case "trace", "debug", "info", "warn", "warning", "error":
			level = env
		}
	}
	if env := os.Getenv("WINJITSU_LOG_FORMAT"); env != "" {
		switch env {
		case "json", "console", "auto":
			format = env
		}
	}

	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.Format = format
	return New(cfg)
}

// ParseLevel maps a config level name to a zerolog level. Unknown names fall
// back to info.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

func resolveFormat(format string) string {
	switch format {
	case "console", "json":
		return format
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return "console"
	}
	return "json"
}
