package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestFanout_NoHandlersDiscards(t *testing.T) {
	f := NewFanout()
	log := slog.New(f)
	log.Info("nobody listens")

	if f.Len() != 0 {
		t.Errorf("expected no handlers, got %d", f.Len())
	}
}

func TestFanout_DeliversToAll(t *testing.T) {
	f := NewFanout()
	var a, b []string
	f.Add(NewCallbackHandler(func(m string) { a = append(a, m) }, nil))
	f.Add(NewCallbackHandler(func(m string) { b = append(b, m) }, slog.LevelError))

	log := slog.New(f)
	log.Info("window created", "width", 640)
	log.Error("link failed")

	if len(a) != 2 {
		t.Fatalf("info handler got %d messages, want 2", len(a))
	}
	if a[0] != "INFO: window created width=640" {
		t.Errorf("unexpected line: %q", a[0])
	}
	if len(b) != 1 || b[0] != "ERROR: link failed" {
		t.Errorf("error handler got %q", b)
	}
}

func TestFanout_AddAfterDerive(t *testing.T) {
	f := NewFanout()
	log := slog.New(f).With("component", "viewer")

	var buf bytes.Buffer
	f.Add(slog.NewTextHandler(&buf, nil))
	log.Info("late handler")

	if !strings.Contains(buf.String(), "component=viewer") {
		t.Errorf("derived logger lost attrs or handler: %q", buf.String())
	}
}

func TestFanout_Groups(t *testing.T) {
	f := NewFanout()
	var buf bytes.Buffer
	f.Add(slog.NewTextHandler(&buf, nil))

	slog.New(f).WithGroup("gl").WithGroup("shader").Info("compiled", "stage", "vertex")

	if !strings.Contains(buf.String(), "gl.shader.stage=vertex") {
		t.Errorf("group not applied: %q", buf.String())
	}
}

func TestCallbackHandler_Level(t *testing.T) {
	var got []string
	h := NewCallbackHandler(func(m string) { got = append(got, m) }, slog.LevelWarn)
	log := slog.New(h)
	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	if len(got) != 1 || got[0] != "WARN: shown" {
		t.Errorf("got %q", got)
	}
}
