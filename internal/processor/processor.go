package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/copywords/internal"
	"codeberg.org/snonux/copywords/internal/anki"
	"codeberg.org/snonux/copywords/internal/archive"
	"codeberg.org/snonux/copywords/internal/batch"
	"codeberg.org/snonux/copywords/internal/cli"
	"codeberg.org/snonux/copywords/internal/download"
	"codeberg.org/snonux/copywords/internal/logging"
	"codeberg.org/snonux/copywords/internal/lookup"
	"codeberg.org/snonux/copywords/internal/media"
	"codeberg.org/snonux/copywords/internal/translation"
	"codeberg.org/snonux/copywords/internal/wordmodel"
)

const (
	lookupCacheSize      = 128
	translationCacheSize = 512

	wordFile      = "word.txt"
	wordModelFile = "word.json"

	geminiEndpoint = "https://generativelanguage.googleapis.com"
)

// ErrNotFound is returned when the dictionary does not know a word
var ErrNotFound = errors.New("word not found")

// WordLookup fetches word models
type WordLookup interface {
	LookUpWord(ctx context.Context, word string, opts lookup.Options) (*wordmodel.WordModel, error)
	GetWordByURL(ctx context.Context, pageURL string, opts lookup.Options) (*wordmodel.WordModel, error)
}

// MediaDownloader fetches the sound and image of a card
type MediaDownloader interface {
	DownloadCardMedia(ctx context.Context, cardDir, soundURL, soundFileName, imageURL string) (*media.Files, error)
}

// Processor handles the main word processing logic
type Processor struct {
	flags            *cli.Flags
	language         wordmodel.SourceLanguage
	translatorURL    string
	lookup           WordLookup
	media            MediaDownloader
	lookups          *lru.Cache[string, *wordmodel.WordModel]
	translationCache *translation.Cache
	log              *slog.Logger
	out              io.Writer
}

// NewProcessor creates a new word processor wired to the real dictionary
// sites and the configured translator backend
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	log := logging.New(flags.LogLevel, flags.LogFormat)
	downloader := download.New(nil, log)

	translator, translatorURL, err := newTranslator(ctx, flags, log)
	if err != nil {
		return nil, err
	}

	cache := translation.NewCache(translationCacheSize)
	if translator != nil {
		translator = translation.NewCachingTranslator(translator, cache)
	}

	p, err := New(flags, lookup.NewService(downloader, translator, log), media.NewDownloader(downloader, nil, log), log)
	if err != nil {
		return nil, err
	}
	p.translatorURL = translatorURL
	p.translationCache = cache
	return p, nil
}

// New creates a processor over the given lookup and media components.
// Translation is enabled when flags.TranslatorURL is set.
func New(flags *cli.Flags, words WordLookup, mediaDownloader MediaDownloader, log *slog.Logger) (*Processor, error) {
	language, err := wordmodel.ParseSourceLanguage(flags.Language)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}

	lookups, err := lru.New[string, *wordmodel.WordModel](lookupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}

	return &Processor{
		flags:         flags,
		language:      language,
		translatorURL: flags.TranslatorURL,
		lookup:        words,
		media:         mediaDownloader,
		lookups:       lookups,
		log:           log,
		out:           os.Stdout,
	}, nil
}

// newTranslator returns the translator for the configured backend and the
// URL that enables it. A nil translator means translation stays off.
func newTranslator(ctx context.Context, flags *cli.Flags, log *slog.Logger) (translation.Translator, string, error) {
	if err := cli.ValidateTranslator(flags.Translator); err != nil {
		return nil, "", err
	}

	switch flags.Translator {
	case cli.TranslatorOpenAI:
		key := cli.GetOpenAIKey()
		if key == "" {
			fmt.Fprintf(os.Stderr, "Warning: OpenAI API key not found, translation disabled\n")
			return nil, "", nil
		}
		config := openai.DefaultConfig(key)
		if flags.TranslatorURL != "" {
			config.BaseURL = flags.TranslatorURL
		}
		return translation.NewOpenAIClientWithConfig(config, key, flags.OpenAIModel, log), config.BaseURL, nil

	case cli.TranslatorGemini:
		key := cli.GetGeminiKey()
		if key == "" {
			fmt.Fprintf(os.Stderr, "Warning: Gemini API key not found, translation disabled\n")
			return nil, "", nil
		}
		client, err := translation.NewGeminiClient(ctx, key, flags.GeminiModel, log)
		if err != nil {
			return nil, "", err
		}
		return client, geminiEndpoint, nil

	default:
		if flags.TranslatorURL == "" {
			return nil, "", nil
		}
		return translation.NewHTTPClient(log), flags.TranslatorURL, nil
	}
}

func (p *Processor) lookupOptions(language wordmodel.SourceLanguage) lookup.Options {
	if language == "" {
		language = p.language
	}
	return lookup.Options{SourceLang: language, TranslatorAPIURL: p.translatorURL}
}

// LookUp returns the word model for a batch entry. Results are cached for
// the lifetime of the processor.
func (p *Processor) LookUp(ctx context.Context, entry batch.WordEntry) (*wordmodel.WordModel, error) {
	opts := p.lookupOptions(entry.Language)
	key := string(opts.SourceLang) + "\x1f" + entry.Target()

	if model, ok := p.lookups.Get(key); ok {
		p.log.Debug("lookup cache hit", "target", entry.Target())
		return model, nil
	}

	var (
		model *wordmodel.WordModel
		err   error
	)
	if entry.URL != "" {
		model, err = p.lookup.GetWordByURL(ctx, entry.URL, opts)
	} else {
		model, err = p.lookup.LookUpWord(ctx, entry.Word, opts)
	}
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%q: %w", entry.Target(), ErrNotFound)
	}

	p.lookups.Add(key, model)
	return model, nil
}

// ProcessBatch processes multiple words from a batch file
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	// Create output directory (including parent directories)
	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Validate words before any lookup
	for _, entry := range entries {
		if entry.Word == "" {
			continue
		}
		if ok, msg := lookup.CheckWord(entry.Word); !ok {
			return fmt.Errorf("invalid word '%s' on line %d: %s", entry.Word, entry.Line, msg)
		}
	}

	// Track statistics
	skippedCount := 0
	processedCount := 0
	cardCount := 0
	errorCount := 0

	for i, entry := range entries {
		target := entry.Target()
		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), target)

		if !p.flags.PrintJSON && p.isWordFullyProcessed(target) {
			fmt.Fprintf(p.out, "  ✓ Skipping '%s' - already processed\n", target)
			skippedCount++
			continue
		}

		n, err := p.ProcessEntry(ctx, entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing '%s': %v\n", target, err)
			errorCount++
			// Continue with next word
			continue
		}
		processedCount++
		cardCount += n
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total words: %d\n", len(entries))
	fmt.Fprintf(p.out, "Processed: %d (%d cards)\n", processedCount, cardCount)
	fmt.Fprintf(p.out, "Skipped (already complete): %d\n", skippedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "Translations cached: %d\n", p.cachedTranslations())
	fmt.Fprintf(p.out, "================================\n")

	return nil
}

func (p *Processor) cachedTranslations() int {
	if p.translationCache == nil {
		return 0
	}
	return p.translationCache.Len()
}

// ProcessSingleWord processes a single word from command line
func (p *Processor) ProcessSingleWord(ctx context.Context, word string) error {
	// Validate word
	if ok, msg := lookup.CheckWord(word); !ok {
		return fmt.Errorf("invalid word '%s': %s", word, msg)
	}

	return p.processOne(ctx, batch.WordEntry{Word: strings.TrimSpace(word), Selection: p.flags.Selection})
}

// ProcessURL processes a dictionary page, e.g. a variant link printed by an
// earlier lookup
func (p *Processor) ProcessURL(ctx context.Context, pageURL string) error {
	return p.processOne(ctx, batch.WordEntry{URL: pageURL, Selection: p.flags.Selection})
}

func (p *Processor) processOne(ctx context.Context, entry batch.WordEntry) error {
	// Create output directory (including parent directories)
	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Fprintf(p.out, "\nProcessing: %s\n", entry.Target())
	_, err := p.ProcessEntry(ctx, entry)
	return err
}

// ProcessEntry looks up one entry and writes a card directory per
// definition with a selected meaning. It returns the number of cards.
// Cards of an earlier run for the same word are moved to the trash bin.
func (p *Processor) ProcessEntry(ctx context.Context, entry batch.WordEntry) (int, error) {
	model, err := p.LookUp(ctx, entry)
	if err != nil {
		return 0, err
	}

	p.printVariants(model)

	if p.flags.PrintJSON {
		return 0, p.writeJSON(model)
	}

	sel := anki.SelectAll()
	if entry.Selection != "" {
		if sel, err = anki.ParseSelection(entry.Selection); err != nil {
			return 0, err
		}
	}
	if err := sel.Validate(model); err != nil {
		return 0, err
	}

	p.trashCardDirectories(entry.Target())
	return p.saveCards(ctx, entry.Target(), model, sel)
}

func (p *Processor) printVariants(model *wordmodel.WordModel) {
	if len(model.Variations) == 0 {
		return
	}
	fmt.Fprintf(p.out, "  Variants (use --url to look one up):\n")
	for _, v := range model.Variations {
		fmt.Fprintf(p.out, "    %s: %s\n", v.Word, v.URL)
	}
}

func (p *Processor) writeJSON(model *wordmodel.WordModel) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("failed to encode word: %w", err)
	}
	return nil
}

func (p *Processor) saveCards(ctx context.Context, target string, model *wordmodel.WordModel, sel *anki.Selection) (int, error) {
	count := 0

	for i, def := range model.Definitions {
		card, err := anki.CompileCard(model, i, sel)
		if errors.Is(err, anki.ErrNothingSelected) {
			continue
		}
		if err != nil {
			return count, err
		}

		cardDir := filepath.Join(p.flags.OutputDir, internal.GenerateCardID(fmt.Sprintf("%s#%d", def.Headword.Original, i+1)))
		if err := p.writeCardDirectory(ctx, cardDir, target, model, def, card); err != nil {
			return count, err
		}

		fmt.Fprintf(p.out, "  Card %d: %s (%s)\n", i+1, def.Headword.Original, filepath.Base(cardDir))
		count++
	}

	if count == 0 {
		return 0, fmt.Errorf("%q: %w", model.Word, anki.ErrNothingSelected)
	}
	return count, nil
}

func (p *Processor) writeCardDirectory(ctx context.Context, cardDir, target string, model *wordmodel.WordModel, def wordmodel.Definition, card anki.Card) error {
	if err := os.MkdirAll(cardDir, 0755); err != nil {
		return fmt.Errorf("failed to create card directory: %w", err)
	}

	// Save word metadata
	if err := os.WriteFile(filepath.Join(cardDir, wordFile), []byte(target), 0644); err != nil {
		return fmt.Errorf("failed to save word metadata: %w", err)
	}
	if err := saveWordModel(cardDir, model); err != nil {
		return err
	}

	if def.Headword.HasTranslation() {
		fmt.Fprintf(p.out, "  Translation: %s\n", card.Translation)
		if err := translation.SaveTranslation(cardDir, def.Headword.Original, def.Headword.English, def.Headword.Russian); err != nil {
			fmt.Fprintf(p.out, "  Warning: Failed to save translation: %v\n", err)
		}
	}

	if !p.flags.SkipMedia && p.media != nil {
		files, err := p.media.DownloadCardMedia(ctx, cardDir, card.SoundURL, model.SoundFileName, card.ImageURL)
		if err != nil {
			// Don't fail the whole card if media is unavailable
			fmt.Fprintf(p.out, "  Warning: Media download failed: %v\n", err)
		}
		if files != nil {
			card.SoundFile = files.Sound
			card.ImageFile = files.Image
		}
	}

	return anki.SaveCard(cardDir, card)
}

func saveWordModel(cardDir string, model *wordmodel.WordModel) error {
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode word: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cardDir, wordModelFile), data, 0644); err != nil {
		return fmt.Errorf("failed to save word: %w", err)
	}
	return nil
}

// GenerateAnkiFile generates the Anki import file and returns the output path
func (p *Processor) GenerateAnkiFile() (string, error) {
	// When --anki is used from CLI, save to home directory
	var outputDir string
	if p.flags.GenerateAnki {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		outputDir = homeDir
	} else {
		outputDir = p.flags.OutputDir
	}

	// Create Anki generator
	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     filepath.Join(outputDir, "anki_import.csv"),
		IncludeHeaders: true,
	})

	// Generate cards from output directory
	if err := gen.GenerateFromDirectory(p.flags.OutputDir); err != nil {
		return "", fmt.Errorf("failed to generate cards: %w", err)
	}

	var outputPath string
	if p.flags.AnkiCSV {
		// Generate CSV
		outputPath = filepath.Join(outputDir, "anki_import.csv")
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		// Generate APKG
		outputPath = filepath.Join(outputDir, fmt.Sprintf("%s.apkg", internal.SanitizeFilename(p.flags.DeckName)))
		if err := gen.GenerateAPKG(outputPath, p.flags.DeckName); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	// Print stats
	total, withSound, withImages := gen.Stats()
	fmt.Fprintf(p.out, "  Generated %d cards (%d with sound, %d with images)\n",
		total, withSound, withImages)

	return outputPath, nil
}

// Helper methods

// findCardDirectories returns the card directories created for target
func (p *Processor) findCardDirectories(target string) []string {
	entries, err := os.ReadDir(p.flags.OutputDir)
	if err != nil {
		return nil
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		dirPath := filepath.Join(p.flags.OutputDir, entry.Name())

		// Read the word file to check if it matches
		if data, err := os.ReadFile(filepath.Join(dirPath, wordFile)); err == nil {
			if strings.TrimSpace(string(data)) == target {
				dirs = append(dirs, dirPath)
			}
		}
	}

	return dirs
}

// isWordFullyProcessed checks if a word already has at least one card
func (p *Processor) isWordFullyProcessed(target string) bool {
	for _, dir := range p.findCardDirectories(target) {
		if _, err := os.Stat(filepath.Join(dir, anki.CardFileName)); err == nil {
			return true
		}
	}
	return false
}

// trashCardDirectories moves earlier cards of target out of the way so a
// new selection replaces them
func (p *Processor) trashCardDirectories(target string) {
	dirs := p.findCardDirectories(target)
	if len(dirs) == 0 {
		return
	}

	trash := filepath.Join(p.flags.OutputDir, archive.TrashDir)
	if err := os.MkdirAll(trash, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create trash bin: %v\n", err)
		return
	}

	for _, dir := range dirs {
		if err := os.Rename(dir, filepath.Join(trash, filepath.Base(dir))); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to move %s to trash bin: %v\n", filepath.Base(dir), err)
			continue
		}
		p.log.Debug("moved old card to trash bin", "dir", dir)
	}
}
