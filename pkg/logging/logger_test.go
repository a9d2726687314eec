package logging

import (
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level   string
		enabled slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tc := range cases {
		logger := New(tc.level)
		if logger == nil || logger.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", tc.level)
		}
		if !logger.Enabled(nil, tc.enabled) {
			t.Errorf("New(%q) should enable level %v", tc.level, tc.enabled)
		}
	}
}

func TestWithReturnsChild(t *testing.T) {
	logger := Default()
	child := logger.With("component", "test")
	if child == nil || child.Logger == nil {
		t.Fatal("With returned nil logger")
	}
	if child == logger {
		t.Fatal("With should return a new logger")
	}
}
