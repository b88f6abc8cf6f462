package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(level string) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newPrettyHandler(buf, levelVar)), buf
}

func TestPrettyHandlerPrefixesComponent(t *testing.T) {
	logger, buf := newBufferLogger("info")
	NewComponentLogger(logger, "store").Info("saved database", Int(FieldCount, 7))

	line := buf.String()
	if !strings.Contains(line, " INFO store: saved database") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "count=7") {
		t.Fatalf("expected count attribute in line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not render as a field: %q", line)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger("info")
	logger.Info("renamed", String("name", "Cave Diver"))

	if !strings.Contains(buf.String(), `name="Cave Diver"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestPrettyHandlerHonorsLevel(t *testing.T) {
	logger, buf := newBufferLogger("warn")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "WARN shown") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatal("unknown level should map to info")
	}
	if parseLevel("") != slog.LevelInfo {
		t.Fatal("empty level should map to info")
	}
	if parseLevel("DEBUG") != slog.LevelDebug {
		t.Fatal("level parsing should be case-insensitive")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(nil, slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
