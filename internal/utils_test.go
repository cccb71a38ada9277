package internal

import (
	"regexp"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"haj", "haj"},
		{"rindende vand", "rindende_vand"},
		{"pingüino", "pingüino"},
		{"pingu\u0308ino", "pingüino"},
		{"fælleskøn", "fælleskøn"},
		{"a/b\\c:d", "a_b_c_d"},
		{"  coche  ", "coche"},
		{"haj (1)", "haj__1_"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.expected {
			t.Errorf("SanitizeFilename(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestGenerateCardID(t *testing.T) {
	id := GenerateCardID("haj")

	if !regexp.MustCompile(`^\d+_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("Expected card ID in format epochMillis_hash, got %q", id)
	}

	// Same hash part for composed and decomposed spellings
	a := GenerateCardID("pingüino")
	b := GenerateCardID("pingu\u0308ino")
	if a[len(a)-8:] != b[len(b)-8:] {
		t.Errorf("Expected equal hashes, got %q and %q", a, b)
	}
}
