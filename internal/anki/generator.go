package anki

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CardFileName is the card description stored in every card directory
const CardFileName = "card.json"

// Card represents a single Anki note compiled from one definition
type Card struct {
	Front        string `json:"front"`        // Headword
	Back         string `json:"back"`         // Selected meanings
	PartOfSpeech string `json:"partOfSpeech"` // e.g. "substantiv, fælleskøn"
	Endings      string `json:"endings"`      // Danish inflection endings
	Examples     string `json:"examples"`     // Selected examples
	Translation  string `json:"translation"`  // English / Russian headword
	SoundFile    string `json:"soundFile,omitempty"`
	ImageFile    string `json:"imageFile,omitempty"`
	SoundURL     string `json:"soundUrl,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Front", "Back", "PartOfSpeech", "Endings", "Examples", "Translation", "Sound", "Image"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Front,
			card.Back,
			card.PartOfSpeech,
			card.Endings,
			card.Examples,
			card.Translation,
			g.formatSoundField(card.SoundFile),
			g.formatImageField(card.ImageFile),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// formatSoundField formats the sound file reference for Anki
func (g *Generator) formatSoundField(soundFile string) string {
	if soundFile == "" {
		return ""
	}

	// Anki sound format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", filepath.Base(soundFile))
}

// formatImageField formats image file reference for Anki
func (g *Generator) formatImageField(imageFile string) string {
	if imageFile == "" {
		return ""
	}

	return fmt.Sprintf(`<img src="%s">`, filepath.Base(imageFile))
}

// GenerateFromDirectory creates cards from a directory of card directories,
// each holding a card.json and its media files
func (g *Generator) GenerateFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		// Skip hidden directories like .trashbin
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		cardDir := filepath.Join(dir, entry.Name())
		card, err := LoadCard(cardDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		g.AddCard(*card)
	}

	return nil
}

// SaveCard writes card.json into the card directory. Media paths are stored
// relative to it.
func SaveCard(cardDir string, card Card) error {
	card.SoundFile = relativeMedia(cardDir, card.SoundFile)
	card.ImageFile = relativeMedia(cardDir, card.ImageFile)

	data, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}

	if err := os.WriteFile(filepath.Join(cardDir, CardFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write card file: %w", err)
	}
	return nil
}

// LoadCard reads card.json from the card directory and resolves its media
// paths. Media files that no longer exist are dropped from the card.
func LoadCard(cardDir string) (*Card, error) {
	data, err := os.ReadFile(filepath.Join(cardDir, CardFileName))
	if err != nil {
		return nil, err
	}

	var card Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Join(cardDir, CardFileName), err)
	}

	card.SoundFile = resolveMedia(cardDir, card.SoundFile)
	card.ImageFile = resolveMedia(cardDir, card.ImageFile)
	return &card, nil
}

func relativeMedia(cardDir, path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(cardDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func resolveMedia(cardDir, path string) string {
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cardDir, path)
	}
	if !fileExists(path) {
		return ""
	}
	return path
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withSound, withImages int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.SoundFile != "" {
			withSound++
		}
		if card.ImageFile != "" {
			withImages++
		}
	}

	return
}
