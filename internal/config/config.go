package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default animation parameters, used when the config file does not override
// them.
const (
	DefaultFrames     = 16
	DefaultDurationMs = 200
)

// Margins describes per-edge pixel insets.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Animation controls the stepped window transitions.
type Animation struct {
	Frames     int `yaml:"frames"`
	DurationMs int `yaml:"duration_ms"`
}

// Config is the winjitsu configuration.
type Config struct {
	Animation Animation `yaml:"animation"`

	// Padding shrinks every monitor's usable area before regions are
	// computed, keeping snapped windows off the screen edges.
	Padding Margins `yaml:"padding"`

	// CacheDir overrides the saved-state directory. Empty means the
	// per-user default under os.UserCacheDir.
	CacheDir string `yaml:"cache_dir"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Hotkeys maps action codes to global key sequences, e.g. "N" to
	// "Mod4-KP_8". Entries layer over the defaults per action code; an
	// empty sequence disables the default binding for that action.
	Hotkeys map[string]string `yaml:"hotkeys"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Animation: Animation{
			Frames:     DefaultFrames,
			DurationMs: DefaultDurationMs,
		},
		LogLevel:  "info",
		LogFormat: "auto",
		Hotkeys: map[string]string{
			"N":  "Mod4-KP_8",
			"S":  "Mod4-KP_2",
			"E":  "Mod4-KP_6",
			"W":  "Mod4-KP_4",
			"NE": "Mod4-KP_9",
			"NW": "Mod4-KP_7",
			"SE": "Mod4-KP_3",
			"SW": "Mod4-KP_1",
			"C":  "Mod4-KP_5",
			"TF": "Mod4-KP_Enter",
			"TD": "Mod4-KP_0",
			"U":  "Mod4-KP_Subtract",
			"CC": "Mod4-KP_Divide",
		},
	}
}

// AnimationFrames returns the frame count with defaults applied.
func (c *Config) AnimationFrames() int {
	if c == nil || c.Animation.Frames <= 0 {
		return DefaultFrames
	}
	return c.Animation.Frames
}

// AnimationDuration returns the total transition duration with defaults
// applied.
func (c *Config) AnimationDuration() time.Duration {
	if c == nil || c.Animation.DurationMs <= 0 {
		return DefaultDurationMs * time.Millisecond
	}
	return time.Duration(c.Animation.DurationMs) * time.Millisecond
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if c.Animation.Frames < 0 {
		return &ValidationError{Path: "animation.frames", Err: fmt.Errorf("frames must be >= 0")}
	}
	if c.Animation.DurationMs < 0 {
		return &ValidationError{Path: "animation.duration_ms", Err: fmt.Errorf("duration_ms must be >= 0")}
	}
	if c.Padding.Top < 0 || c.Padding.Bottom < 0 || c.Padding.Left < 0 || c.Padding.Right < 0 {
		return &ValidationError{Path: "padding", Err: fmt.Errorf("padding values must be >= 0")}
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: trace, debug, info, warn, warning, error")}
	}
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: auto, console, json")}
	}
	for action := range c.Hotkeys {
		if strings.TrimSpace(action) == "" {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("action code must not be empty")}
		}
	}
	return nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
