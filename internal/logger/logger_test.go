package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithWriter(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "stage", "dedup")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}

	if !strings.Contains(out, "shown") || !strings.Contains(out, "stage=dedup") {
		t.Errorf("warn record missing: %s", out)
	}

	log.SetLevel("debug")
	log.With("stage", "impute").Debug("now visible")

	if !strings.Contains(buf.String(), "stage=impute") {
		t.Errorf("debug record missing after SetLevel: %s", buf.String())
	}
}
