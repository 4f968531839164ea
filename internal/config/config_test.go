package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestDefaultConfig_BindsEveryKeypadAction(t *testing.T) {
	cfg := DefaultConfig()
	for _, action := range []string{"N", "S", "E", "W", "NE", "NW", "SE", "SW", "C", "TF", "TD", "U", "CC"} {
		if cfg.Hotkeys[action] == "" {
			t.Errorf("Hotkeys[%q] is empty, want a default binding", action)
		}
	}
}

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if got := cfg.AnimationFrames(); got != DefaultFrames {
		t.Errorf("AnimationFrames() = %d, want %d", got, DefaultFrames)
	}
	if got := cfg.AnimationDuration(); got != DefaultDurationMs*time.Millisecond {
		t.Errorf("AnimationDuration() = %v, want %v", got, DefaultDurationMs*time.Millisecond)
	}
}

func TestLoadFromPath_EmptyFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfigFile(t, ""))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if got := cfg.AnimationFrames(); got != DefaultFrames {
		t.Errorf("AnimationFrames() = %d, want %d", got, DefaultFrames)
	}
}

func TestLoadFromPath_LayersFileOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
animation:
  frames: 12
padding:
  top: 8
hotkeys:
  N: Mod4-Up
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if got := cfg.AnimationFrames(); got != 12 {
		t.Errorf("AnimationFrames() = %d, want 12", got)
	}
	// duration_ms was not set, so the default survives.
	if got := cfg.AnimationDuration(); got != DefaultDurationMs*time.Millisecond {
		t.Errorf("AnimationDuration() = %v, want %v", got, DefaultDurationMs*time.Millisecond)
	}
	if cfg.Padding.Top != 8 {
		t.Errorf("Padding.Top = %d, want 8", cfg.Padding.Top)
	}
	if got := cfg.Hotkeys["N"]; got != "Mod4-Up" {
		t.Errorf("Hotkeys[N] = %q, want Mod4-Up", got)
	}
	// Unmentioned bindings keep their defaults.
	if got := cfg.Hotkeys["S"]; got != "Mod4-KP_2" {
		t.Errorf("Hotkeys[S] = %q, want Mod4-KP_2", got)
	}
}

func TestLoadFromPath_EmptySequenceUnbindsAction(t *testing.T) {
	path := writeConfigFile(t, `
hotkeys:
  TD: ""
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if got, ok := cfg.Hotkeys["TD"]; !ok || got != "" {
		t.Errorf("Hotkeys[TD] = %q (present=%t), want empty override", got, ok)
	}
}

func TestLoadFromPath_RejectsUnknownFields(t *testing.T) {
	path := writeConfigFile(t, `
frames: 10
`)

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("LoadFromPath() error = nil, want unknown-field error")
	}
}

func TestLoadFromPath_RejectsInvalidValues(t *testing.T) {
	path := writeConfigFile(t, `
animation:
  frames: -1
`)

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("LoadFromPath() error = nil, want validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.Path != "animation.frames" {
		t.Errorf("ValidationError.Path = %q, want animation.frames", verr.Path)
	}
}

func TestValidate_RejectsNegativePadding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Padding.Left = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want padding error")
	}
}

func TestValidate_AcceptsEveryLoggingLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "warning", "error"} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() with log_level=%q error = %v, want nil", level, err)
		}
	}
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want log_level error")
	}
}

func TestValidate_RejectsUnknownLogFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want log_format error")
	}
}

func TestAnimationGetters_DefaultWhenZero(t *testing.T) {
	var cfg Config
	if got := cfg.AnimationFrames(); got != DefaultFrames {
		t.Errorf("AnimationFrames() = %d, want %d", got, DefaultFrames)
	}
	if got := cfg.AnimationDuration(); got != DefaultDurationMs*time.Millisecond {
		t.Errorf("AnimationDuration() = %v, want %v", got, DefaultDurationMs*time.Millisecond)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Animation.Frames = 18
	cfg.Padding = Margins{Top: 4, Bottom: 4, Left: 4, Right: 4}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.AnimationFrames(); got != 18 {
		t.Errorf("AnimationFrames() = %d, want 18", got)
	}
	if loaded.Padding != cfg.Padding {
		t.Errorf("Padding = %+v, want %+v", loaded.Padding, cfg.Padding)
	}
	if got := loaded.Hotkeys["C"]; got != "Mod4-KP_5" {
		t.Errorf("Hotkeys[C] = %q, want Mod4-KP_5", got)
	}
}

func TestDefaultConfigPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error = %v", err)
	}
	want := filepath.Join(home, ".config", "winjitsu", "config.yaml")
	if path != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", path, want)
	}
}
