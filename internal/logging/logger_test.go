package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("info", &buf)

	log.Debug("hidden detail")
	log.Info("visible message", "trials", 500)

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Error("debug record emitted at info level")
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "500") {
		t.Errorf("info record missing from output: %q", out)
	}
}

func TestNewLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("debug", &buf)

	log.Debug("proposal accepted", "requester", 3)
	if !strings.Contains(buf.String(), "proposal accepted") {
		t.Errorf("debug record missing at debug level: %q", buf.String())
	}
}
