package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/studytime/pkg/studytime/logging"
)

// Tests in this file share global logging state and must not run in parallel.

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"", logging.LevelInfo, false},
		{"warning", logging.LevelWarn, false},
		{"warn", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"loud", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, logging.ErrInvalidLevel) {
				t.Errorf("error %v does not wrap ErrInvalidLevel", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if logging.LevelWarn.String() != "warn" {
		t.Errorf("LevelWarn.String() = %q", logging.LevelWarn.String())
	}
	if logging.Level(99).String() != "unknown" {
		t.Errorf("Level(99).String() = %q", logging.Level(99).String())
	}
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studytime.log")

	if err := logging.Init(logging.Config{Level: "debug", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = logging.Close() })

	logging.Get("aggregator").Warn("extraction failed", "path", "/exam/broken.pdf")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "extraction failed") {
		t.Errorf("log file missing message: %q", content)
	}
	if !strings.Contains(content, "aggregator") {
		t.Errorf("log file missing component prefix: %q", content)
	}
}

func TestInit_ComponentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studytime.log")

	err := logging.Init(logging.Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"walker": "error"},
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logging.Get("walker").Info("should be filtered")
	logging.Get("assembler").Info("should be kept")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "should be filtered") {
		t.Error("component override did not filter info message")
	}
	if !strings.Contains(content, "should be kept") {
		t.Error("default level dropped info message")
	}
}

func TestInit_InvalidLevels(t *testing.T) {
	dir := t.TempDir()

	cfgs := []logging.Config{
		{Level: "verbose", Path: filepath.Join(dir, "a.log")},
		{Level: "info", Path: filepath.Join(dir, "b.log"), Components: map[string]string{"x": "nope"}},
		{Level: "info", Path: filepath.Join(dir, "c.log"), ConsoleLevel: "nope"},
	}
	for _, cfg := range cfgs {
		if err := logging.Init(cfg); err == nil {
			t.Errorf("Init(%+v) succeeded, want error", cfg)
		}
	}
}

func TestGet_BeforeInitIsSilent(t *testing.T) {
	_ = logging.Close()

	l := logging.Get("quiet")
	l.Info("nobody hears this")

	if l.Component() != "quiet" {
		t.Errorf("Component() = %q, want quiet", l.Component())
	}
	if l.With("k", "v").Component() != "quiet" {
		t.Error("With() lost the component name")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if !strings.HasSuffix(cfg.Path, filepath.Join("studytime", "studytime.log")) {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.Rotation.MaxSizeMB != 10 {
		t.Errorf("Rotation.MaxSizeMB = %d, want 10", cfg.Rotation.MaxSizeMB)
	}
}
