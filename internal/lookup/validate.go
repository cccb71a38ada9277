package lookup

import (
	"regexp"
	"strings"
)

const (
	msgEmptyWord   = "LookUp text cannot be null or empty."
	msgInvalidWord = "Search can only contain alphanumeric characters and spaces."
)

// Word characters of any script plus spaces. Go's \w only matches ASCII.
var validWord = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_ ]+$`)

// CheckWord validates user input before a lookup. The message explains
// why a word was rejected and is empty for valid words.
func CheckWord(word string) (bool, string) {
	if strings.TrimSpace(word) == "" {
		return false, msgEmptyWord
	}

	if !validWord.MatchString(word) {
		return false, msgInvalidWord
	}

	return true, ""
}
