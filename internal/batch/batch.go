package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/copywords/internal/wordmodel"
)

// WordEntry is one line of a batch file
type WordEntry struct {
	Word      string                   // Word to look up, empty when URL is set
	URL       string                   // Dictionary page to look up directly
	Language  wordmodel.SourceLanguage // Empty means the default language
	Selection string                   // Meanings to put on the cards, empty means all
	Line      int
}

// Target returns the word or the URL, whichever the entry carries
func (e WordEntry) Target() string {
	if e.URL != "" {
		return e.URL
	}
	return e.Word
}

// ReadBatchFile reads words from a file and returns WordEntry slice
// Supports formats:
// - Word only: "haj" (looked up in the default language)
// - With language: "es:coche" or "danish:haj"
// - Page URL: "https://ordnet.dk/ddo/ordbog?select=haj,2&query=haj"
// - With selection: "haj | 1.1.1,1.1.3" (see anki.ParseSelection)
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	var entries []WordEntry
	scanner := bufio.NewScanner(file)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		entry, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
		}
		if !ok {
			continue
		}
		entry.Line = lineNo
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}

// ParseLine parses a single batch line. ok is false for blank lines and
// comments.
func ParseLine(line string) (entry WordEntry, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return WordEntry{}, false, nil
	}

	target, selection, _ := strings.Cut(line, "|")
	target = strings.TrimSpace(target)
	entry.Selection = strings.TrimSpace(selection)

	if target == "" {
		return WordEntry{}, false, fmt.Errorf("missing word in %q", line)
	}

	if isURL(target) {
		entry.URL = target
		return entry, true, nil
	}

	if prefix, word, found := strings.Cut(target, ":"); found {
		lang, err := wordmodel.ParseSourceLanguage(prefix)
		if err != nil {
			return WordEntry{}, false, err
		}
		entry.Language = lang
		target = strings.TrimSpace(word)
		if target == "" {
			return WordEntry{}, false, fmt.Errorf("missing word in %q", line)
		}
	}

	entry.Word = target
	return entry, true, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
