package logger

import (
	"bytes"
	"encoding/json"
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
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewTextWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText("info", &buf)

	logger.Info("generation evaluated", "generation", 3)
	output := buf.String()
	if !strings.Contains(output, "generation evaluated") || !strings.Contains(output, "generation=3") {
		t.Errorf("unexpected text output: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		logFunc  func(string, ...any)
		logMsg   string
		expected bool
	}{
		{"debug at debug", "debug", Debug, "debug message", true},
		{"debug at info", "info", Debug, "debug message", false},
		{"info at warn", "warn", Info, "info message", false},
		{"warn at warn", "warn", Warn, "warn message", true},
		{"error at error", "error", Error, "error message", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetDefault(New(tt.logLevel, &buf))

			tt.logFunc(tt.logMsg)
			output := buf.String()

			if tt.expected && !strings.Contains(output, tt.logMsg) {
				t.Errorf("expected output to contain %q, got: %s", tt.logMsg, output)
			}
			if !tt.expected && strings.Contains(output, tt.logMsg) {
				t.Errorf("expected output NOT to contain %q, got: %s", tt.logMsg, output)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New("info", &buf))

	Info("search completed", "search_id", "abc", "generations", 5)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log output: %v", err)
	}
	if entry["msg"] != "search completed" {
		t.Errorf("expected msg 'search completed', got %v", entry["msg"])
	}
	if entry["search_id"] != "abc" {
		t.Errorf("expected search_id 'abc', got %v", entry["search_id"])
	}
	if entry["generations"] != float64(5) {
		t.Errorf("expected generations 5, got %v", entry["generations"])
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New("info", &buf))

	With("search_id", "s-1").Info("search started")

	output := buf.String()
	if !strings.Contains(output, "search_id") || !strings.Contains(output, "s-1") {
		t.Errorf("expected attributes in output, got: %s", output)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	l.Error("dropped")
}
