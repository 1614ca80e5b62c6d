package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var sb strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&sb, lvl))
	logger = NewComponentLogger(logger, "release")

	logger.Info("release installed",
		String("version", "v4.9"),
		Int64("size", 12345),
		Bool("verified", true))

	line := sb.String()
	if !strings.Contains(line, " INFO release: release installed") {
		t.Fatalf("line %q missing level/component/message", line)
	}
	for _, want := range []string{"version=v4.9", "size=12345", "verified=true"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component must render as prefix, not attribute: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var sb strings.Builder
	logger := slog.New(newConsoleHandler(&sb, new(slog.LevelVar)))

	logger.Warn("fetch failed", Error(errors.New("connection refused")))

	if !strings.Contains(sb.String(), `error="connection refused"`) {
		t.Fatalf("line %q missing quoted error", sb.String())
	}
}

func TestConsoleHandlerLevelGate(t *testing.T) {
	var sb strings.Builder
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&sb, lvl))

	logger.Info("ignored")
	logger.Warn("kept")

	out := sb.String()
	if strings.Contains(out, "ignored") {
		t.Fatalf("info line must be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestNewJSONFormatWritesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "poolman.log")
	logger, err := New(Options{
		Level:            "debug",
		Format:           "json",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("daemon started", String("session_id", "abc"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, data)
	}
	if record["msg"] != "daemon started" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["level"] != "debug" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record["session_id"] != "abc" {
		t.Fatalf("unexpected session_id: %v", record["session_id"])
	}
	if _, err := time.Parse(time.RFC3339, record["ts"].(string)); err != nil {
		t.Fatalf("unexpected ts: %v", record["ts"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger must not be enabled at any level")
	}
}
