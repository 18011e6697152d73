package slogutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"affected/internal/config"
)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("Test message", "key", "value", "count", 42)

	output := buf.String()

	// TIMESTAMP [level] Message | key=value
	if !strings.Contains(output, "[info] Test message | key=value count=42\n") {
		t.Errorf("unexpected line: %s", output)
	}
}

func TestLineHandler_QuotesStrings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("Scan", "path", "src/my file.ts", "empty", "")

	output := buf.String()
	if !strings.Contains(output, `path="src/my file.ts"`) {
		t.Errorf("expected quoted path, got: %s", output)
	}
	if !strings.Contains(output, `empty=""`) {
		t.Errorf("expected quoted empty value, got: %s", output)
	}
}

func TestLineHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("plain")

	if !strings.HasSuffix(buf.String(), "[info] plain\n") {
		t.Errorf("unexpected line: %q", buf.String())
	}
}

func TestLineHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).
		With("runId", "abc").
		WithGroup("scan")

	logger.Info("done", "files", 3)

	output := buf.String()
	if !strings.Contains(output, "| runId=abc scan.files=3") {
		t.Errorf("unexpected attrs: %s", output)
	}
}

func TestLineHandler_Levels(t *testing.T) {
	tests := []struct {
		logFunc  func(*slog.Logger)
		expected string
	}{
		{func(l *slog.Logger) { l.Debug("debug") }, "[debug]"},
		{func(l *slog.Logger) { l.Info("info") }, "[info]"},
		{func(l *slog.Logger) { l.Warn("warn") }, "[warn]"},
		{func(l *slog.Logger) { l.Error("error") }, "[error]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, slog.LevelDebug)
			tt.logFunc(logger)

			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("expected %s in output, got: %s", tt.expected, buf.String())
			}
		})
	}
}

func TestLineHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()

	if strings.Contains(output, "debug message") {
		t.Error("debug message should be filtered")
	}
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should be included")
	}
	if !strings.Contains(output, "error message") {
		t.Error("error message should be included")
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, slog.LevelInfo).Info("Scan finished", "files", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if record["msg"] != "Scan finished" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["files"] != float64(2) {
		t.Errorf("files = %v", record["files"])
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LevelFromString(tt.input); got != tt.expected {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		expected  slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{3, false, slog.LevelDebug},
		{0, true, LevelSilent},
		{5, true, LevelSilent}, // quiet overrides verbosity
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity, tt.quiet)
		if got != tt.expected {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v",
				tt.verbosity, tt.quiet, got, tt.expected)
		}
	}
}

func TestEffectiveLevel(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		settings Settings
		expected slog.Level
	}{
		{"config level", config.LoggingConfig{Level: "debug"}, Settings{}, slog.LevelDebug},
		{"no level", config.LoggingConfig{}, Settings{}, slog.LevelWarn},
		{"verbosity wins", config.LoggingConfig{Level: "error"}, Settings{Verbosity: 1}, slog.LevelInfo},
		{"quiet wins", config.LoggingConfig{Level: "debug"}, Settings{Quiet: true}, LevelSilent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveLevel(tt.cfg, tt.settings); got != tt.expected {
				t.Errorf("EffectiveLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFromConfig_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, config.LoggingConfig{Format: "human", Level: "info"}, Settings{Format: "json"})
	logger.Info("hello")

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("flag format should override config, got: %s", buf.String())
	}

	buf.Reset()
	logger = FromConfig(&buf, config.LoggingConfig{Format: "human", Level: "info"}, Settings{})
	logger.Info("hello")
	if !strings.Contains(buf.String(), "[info] hello") {
		t.Errorf("expected line format, got: %s", buf.String())
	}
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()

	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not enable any level")
	}
	logger.Error("error")
}
