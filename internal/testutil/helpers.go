// Package testutil holds file system helpers shared by the tests of the
// card producing packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Minimal file headers, enough for media type sniffing
var (
	MP3Data = []byte{0xFF, 0xFB, 0x90, 0x00}
	JPGData = []byte{0xFF, 0xD8, 0xFF, 0xE0}
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateTestCardDirectory creates a card directory named name under
// baseDir holding word.txt and the given card.json. Media names ending in
// .jpg get image bytes, all others sound bytes.
func CreateTestCardDirectory(t *testing.T, baseDir, name, word, cardJSON string, media ...string) string {
	t.Helper()

	cardDir := filepath.Join(baseDir, name)
	CreateTestFile(t, filepath.Join(cardDir, "word.txt"), []byte(word))
	if cardJSON != "" {
		CreateTestFile(t, filepath.Join(cardDir, "card.json"), []byte(cardJSON))
	}

	for _, file := range media {
		data := MP3Data
		if strings.HasSuffix(file, ".jpg") {
			data = JPGData
		}
		CreateTestFile(t, filepath.Join(cardDir, file), data)
	}

	return cardDir
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}
