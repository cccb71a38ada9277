package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("page downloaded", "url", "https://ordnet.dk/ddo/ordbog?query=haj")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got error: %v", err)
	}
	if entry["msg"] != "page downloaded" {
		t.Errorf("Expected msg 'page downloaded', got %v", entry["msg"])
	}
}

func TestNewWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug", "text")

	logger.Debug("lookup", "word", "haj")

	if !strings.Contains(buf.String(), "word=haj") {
		t.Errorf("Expected text output to contain word=haj, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic
	Discard().Error("dropped")
}
