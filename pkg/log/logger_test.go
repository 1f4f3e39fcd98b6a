package log

import (
	"encoding/json"
	"strings"
	"testing"
)

type captureOutput struct {
	lines []string
}

func (c *captureOutput) Write(_ *Entry, formatted []byte) error {
	c.lines = append(c.lines, string(formatted))
	return nil
}

func (c *captureOutput) Close() error { return nil }

func TestLevelFiltering(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(WithLevel(WarnLevel), WithFormatter(&TextFormatter{}), WithOutput(out))
	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")
	if len(out.lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(out.lines))
	}
}

func TestWithFieldsPropagate(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(WithLevel(InfoLevel), WithFormatter(&JSONFormatter{}), WithOutput(out))
	logger = logger.With(Component("signup"), Str("session", "s-1"))
	logger.Info("applied", Uint64("version", 3))
	if len(out.lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(out.lines))
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(out.lines[0]), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["component"] != "signup" || obj["session"] != "s-1" {
		t.Fatalf("missing derived fields: %v", obj)
	}
	if obj["msg"] != "applied" {
		t.Fatalf("unexpected msg: %v", obj["msg"])
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("debug"); err != nil || lvl != DebugLevel {
		t.Fatalf("debug: %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(WithLevel(InfoLevel), WithFormatter(&TextFormatter{}), WithOutput(out))
	logger.Info("x", Str("b", "2"), Str("a", "1"))
	line := out.lines[0]
	if strings.Index(line, "a=1") > strings.Index(line, "b=2") {
		t.Fatalf("fields not sorted: %s", line)
	}
}
