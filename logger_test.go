package g3d

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultsSilent(t *testing.T) {
	if l := Logger(); l == nil {
		t.Fatal("Logger() = nil")
	}
	// The nop handler must report disabled so callers skip formatting.
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger reports enabled")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output %q missing message", buf.String())
	}

	// nil restores the silent default.
	SetLogger(nil)
	buf.Reset()
	Logger().Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("silent logger produced output %q", buf.String())
	}
}
