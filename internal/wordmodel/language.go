package wordmodel

import (
	"fmt"
	"strings"
)

// SourceLanguage selects the dictionary a lookup goes to
type SourceLanguage string

const (
	Danish  SourceLanguage = "danish"
	Spanish SourceLanguage = "spanish"
)

// ParseSourceLanguage accepts the language name or its ISO 639-1 code
func ParseSourceLanguage(s string) (SourceLanguage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "danish", "da", "dk":
		return Danish, nil
	case "spanish", "es":
		return Spanish, nil
	default:
		return "", fmt.Errorf("unsupported source language: %q", s)
	}
}

// Code returns the ISO 639-1 code sent to the translator API
func (l SourceLanguage) Code() string {
	switch l {
	case Danish:
		return "da"
	case Spanish:
		return "es"
	default:
		return ""
	}
}

func (l SourceLanguage) String() string {
	return string(l)
}
