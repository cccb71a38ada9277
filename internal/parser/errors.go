// Package parser holds what the dictionary page parsers share: the error
// types they report and small text clean-up helpers.
package parser

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrEmptyContent is returned when a parser is handed an empty page
	ErrEmptyContent = errors.New("page content cannot be empty")

	// ErrNotLoaded is returned when a Parse method runs before LoadHTML succeeded
	ErrNotLoaded = errors.New("no page loaded, call LoadHTML first")
)

// ParseError reports a page that does not have the structure the parser
// relies on. It usually means the dictionary site changed its layout.
type ParseError struct {
	Source  string // "ddo" or "spanishdict"
	Element string // selector or JSON path that was expected
	Message string
}

func (e *ParseError) Error() string {
	return e.Source + " parser: " + e.Message
}

// NewParseError creates a ParseError for a missing element
func NewParseError(source, element, message string) *ParseError {
	return &ParseError{Source: source, Element: element, Message: message}
}

// IsParseError reports whether err is or wraps a ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// NormalizeWhitespace collapses runs of whitespace (including no-break
// spaces) into one space and trims the result
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// EnsureTerminalPunctuation appends a full stop unless the sentence already
// ends with one of . ! ? or an ellipsis
func EnsureTerminalPunctuation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch {
	case strings.HasSuffix(s, "."),
		strings.HasSuffix(s, "!"),
		strings.HasSuffix(s, "?"),
		strings.HasSuffix(s, "…"):
		return s
	}
	return s + "."
}
