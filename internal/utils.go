package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// GenerateCardID creates a unique ID for a card based on timestamp and word
// Format: epochMillis_md5(word)[:8]
func GenerateCardID(word string) string {
	epochMillis := time.Now().UnixNano() / 1000000

	// Decomposed and composed spellings of the same word hash the same
	hash := md5.Sum([]byte(norm.NFC.String(word)))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// SanitizeFilename creates a safe filename from a string. Letters of any
// script are kept, so "grillspyd" and "pingüino" stay readable.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
