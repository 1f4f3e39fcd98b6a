package log

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSlogBridgeRoutesRecords(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(WithLevel(InfoLevel), WithFormatter(&JSONFormatter{}), WithOutput(out))
	sl := slog.New(NewSlogHandler(logger))

	sl.Debug("hidden")
	sl.Info("compaction done", slog.Int("files", 3), slog.String("dir", "db"))

	if len(out.lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(out.lines), out.lines)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(out.lines[0]), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["msg"] != "compaction done" || obj["dir"] != "db" {
		t.Fatalf("record not carried through: %v", obj)
	}
	if obj["files"] != float64(3) {
		t.Fatalf("attr lost: %v", obj["files"])
	}
}

func TestSlogBridgeWithAttrs(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(WithLevel(InfoLevel), WithFormatter(&JSONFormatter{}), WithOutput(out))
	sl := slog.New(NewSlogHandler(logger)).With(slog.String("component", "pebble"))

	sl.Warn("slow fsync")

	var obj map[string]any
	if err := json.Unmarshal([]byte(out.lines[0]), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["component"] != "pebble" {
		t.Fatalf("derived attrs missing: %v", obj)
	}
	if obj["level"] != "WARN" {
		t.Fatalf("level mapping: %v", obj["level"])
	}
}

func TestSlogLevelMapping(t *testing.T) {
	h := NewSlogHandler(NewLogger(WithLevel(WarnLevel), WithOutput(&captureOutput{})))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be filtered at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should pass at warn level")
	}
	if fromSlogLevel(slog.LevelDebug) != DebugLevel || fromSlogLevel(slog.LevelError+4) != ErrorLevel {
		t.Fatalf("level conversion")
	}
}
