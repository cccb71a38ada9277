package parser

import (
	"fmt"
	"testing"
)

func TestParseError(t *testing.T) {
	err := NewParseError("ddo", "span.match", "headword not found")

	expected := "ddo parser: headword not found"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}

	wrapped := fmt.Errorf("lookup failed: %w", err)
	if !IsParseError(wrapped) {
		t.Error("Expected wrapped error to be recognised as ParseError")
	}
	if IsParseError(ErrEmptyContent) {
		t.Error("ErrEmptyContent is not a ParseError")
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"  haj  ", "haj"},
		{"rindende\n\t  vand", "rindende vand"},
		{"skat  skatte", "skat skatte"},
	}

	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.input); got != tt.expected {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestEnsureTerminalPunctuation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Der er hajer i vandet", "Der er hajer i vandet."},
		{"Han er en haj.", "Han er en haj."},
		{"Er det en haj?", "Er det en haj?"},
		{"Pas på!", "Pas på!"},
		{"og så videre…", "og så videre…"},
		{"  trailing spaces  ", "trailing spaces."},
	}

	for _, tt := range tests {
		if got := EnsureTerminalPunctuation(tt.input); got != tt.expected {
			t.Errorf("EnsureTerminalPunctuation(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
