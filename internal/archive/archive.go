// Package archive moves a finished cards directory out of the way so the
// next deck starts empty.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TrashDir holds cards that were replaced by a later lookup of the same word
const TrashDir = ".trashbin"

// ErrNothingToArchive is returned for a cards directory without cards
var ErrNothingToArchive = errors.New("nothing to archive")

// ArchiveCards moves the cards directory to an archive with timestamp next
// to it and returns the archive path. The trash bin is not archived.
func ArchiveCards(cardsDir string) (string, error) {
	// Check if cards directory exists
	entries, err := os.ReadDir(cardsDir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("cards directory does not exist: %s", cardsDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cards directory: %w", err)
	}

	cards := 0
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			cards++
		}
	}
	if cards == 0 {
		return "", fmt.Errorf("%s: %w", cardsDir, ErrNothingToArchive)
	}

	if err := os.RemoveAll(filepath.Join(cardsDir, TrashDir)); err != nil {
		return "", fmt.Errorf("failed to empty trash bin: %w", err)
	}

	// Get parent directory and create archive path
	archiveDir := filepath.Join(filepath.Dir(cardsDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(archiveDir, "cards-"+time.Now().Format("20060102-150405"))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		archivePath = filepath.Join(archiveDir, "cards-"+time.Now().Format("20060102-150405.000000"))
	}

	// Rename cards directory to archive
	if err := os.Rename(cardsDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive cards directory: %w", err)
	}

	return archivePath, nil
}
