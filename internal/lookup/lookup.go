// Package lookup downloads a dictionary page for a word, runs the parser
// for its language and reshapes the result into a wordmodel.WordModel,
// optionally adding translations of the headwords.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"codeberg.org/snonux/copywords/internal/logging"
	"codeberg.org/snonux/copywords/internal/translation"
	"codeberg.org/snonux/copywords/internal/wordmodel"
)

// Source page addresses, %s is the escaped word
const (
	DanishURLFormat  = "https://ordnet.dk/ddo/ordbog?query=%s&search=S%%C3%%B8g"
	SpanishURLFormat = "https://www.spanishdict.com/translate/%s"
)

var (
	// ErrInvalidWord is returned for input CheckWord rejects
	ErrInvalidWord = errors.New("invalid word")

	// ErrUnsupportedLanguage is returned for a source language without a parser
	ErrUnsupportedLanguage = errors.New("unsupported source language")
)

// translationLanguages are requested for every headword
var translationLanguages = []string{translation.English, translation.Russian}

// Options control a single lookup
type Options struct {
	SourceLang wordmodel.SourceLanguage

	// TranslatorAPIURL enables headword translation when not empty
	TranslatorAPIURL string
}

// PageDownloader fetches a page as text. An empty page means not found.
type PageDownloader interface {
	DownloadPage(ctx context.Context, url, encoding string) (string, error)
}

// Service performs lookups
type Service struct {
	downloader PageDownloader
	translator translation.Translator
	log        *slog.Logger

	danishURLFormat  string
	spanishURLFormat string
}

// NewService creates a lookup service. translator may be nil when lookups
// never set Options.TranslatorAPIURL.
func NewService(downloader PageDownloader, translator translation.Translator, log *slog.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		downloader:       downloader,
		translator:       translator,
		log:              log,
		danishURLFormat:  DanishURLFormat,
		spanishURLFormat: SpanishURLFormat,
	}
}

// SetURLFormats points the service at other hosts, e.g. a mirror
func (s *Service) SetURLFormats(danish, spanish string) {
	if danish != "" {
		s.danishURLFormat = danish
	}
	if spanish != "" {
		s.spanishURLFormat = spanish
	}
}

// LookUpWord validates word, builds the dictionary URL for the source
// language and looks it up. A nil model without error means the dictionary
// does not know the word.
func (s *Service) LookUpWord(ctx context.Context, word string, opts Options) (*wordmodel.WordModel, error) {
	if ok, msg := CheckWord(word); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWord, msg)
	}

	pageURL, err := s.wordURL(strings.TrimSpace(word), opts.SourceLang)
	if err != nil {
		return nil, err
	}

	return s.GetWordByURL(ctx, pageURL, opts)
}

func (s *Service) wordURL(word string, lang wordmodel.SourceLanguage) (string, error) {
	switch lang {
	case wordmodel.Danish:
		return fmt.Sprintf(s.danishURLFormat, url.QueryEscape(word)), nil
	case wordmodel.Spanish:
		return fmt.Sprintf(s.spanishURLFormat, url.PathEscape(word)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
}

// GetWordByURL looks up a page directly, e.g. a variant link of an earlier
// lookup
func (s *Service) GetWordByURL(ctx context.Context, pageURL string, opts Options) (*wordmodel.WordModel, error) {
	if opts.SourceLang != wordmodel.Danish && opts.SourceLang != wordmodel.Spanish {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, opts.SourceLang)
	}

	s.log.Debug("looking up", "url", pageURL, "language", opts.SourceLang.String())

	html, err := s.downloader.DownloadPage(ctx, pageURL, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", pageURL, err)
	}
	if html == "" {
		s.log.Debug("page not found", "url", pageURL)
		return nil, nil
	}

	if opts.SourceLang == wordmodel.Danish {
		return s.danishWord(ctx, html, opts)
	}
	return s.spanishWord(ctx, html, opts)
}

// GetTranslation calls the translator, or returns an empty output without
// any network call when no translator URL is configured
func (s *Service) GetTranslation(ctx context.Context, opts Options, input translation.TranslationInput) (*translation.TranslationOutput, error) {
	if opts.TranslatorAPIURL == "" {
		return &translation.TranslationOutput{Translations: []translation.TranslationItem{}}, nil
	}
	if s.translator == nil {
		return nil, errors.New("translator URL set but no translator configured")
	}

	output, err := s.translator.Translate(ctx, opts.TranslatorAPIURL, input)
	if err != nil {
		return nil, fmt.Errorf("failed to translate %q: %w", input.Word, err)
	}
	return output, nil
}

// translateHeadword returns the headword with English and Russian filled in
// when translation is enabled
func (s *Service) translateHeadword(ctx context.Context, opts Options, input translation.TranslationInput) (wordmodel.Headword, error) {
	headword := wordmodel.Headword{Original: input.Word}
	if opts.TranslatorAPIURL == "" {
		return headword, nil
	}

	input.SourceLanguage = opts.SourceLang.Code()
	input.DestinationLanguages = translationLanguages

	output, err := s.GetTranslation(ctx, opts, input)
	if err != nil {
		return headword, err
	}

	headword.English = strings.Join(output.Variants(translation.English), ", ")
	headword.Russian = strings.Join(output.Variants(translation.Russian), ", ")
	return headword, nil
}
