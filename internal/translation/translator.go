package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/copywords/internal/logging"
)

// Languages requested by the lookup service
const (
	English = "en"
	Russian = "ru"
)

// TranslationInput is what gets translated
type TranslationInput struct {
	SourceLanguage       string   `json:"sourceLanguage"`
	DestinationLanguages []string `json:"destinationLanguages"`
	Word                 string   `json:"word"`
	Meaning              string   `json:"meaning"`
	PartOfSpeech         string   `json:"partOfSpeech"`
	Examples             []string `json:"examples"`
}

// TranslationOutput holds one item per destination language
type TranslationOutput struct {
	Translations []TranslationItem `json:"translations"`
}

// TranslationItem lists the translation variants for one language
type TranslationItem struct {
	Language            string   `json:"language"`
	TranslationVariants []string `json:"translationVariants"`
}

// Variants returns the variants for language, or nil
func (o *TranslationOutput) Variants(language string) []string {
	if o == nil {
		return nil
	}
	for _, item := range o.Translations {
		if strings.EqualFold(item.Language, language) {
			return item.TranslationVariants
		}
	}
	return nil
}

// Translator translates a word in the context of one of its meanings.
// apiURL is only used by backends that talk to a translator web service.
type Translator interface {
	Translate(ctx context.Context, apiURL string, input TranslationInput) (*TranslationOutput, error)
}

// HTTPClient posts TranslationInput as JSON to a translator web service and
// expects TranslationOutput back
type HTTPClient struct {
	httpClient *http.Client
	log        *slog.Logger
}

// NewHTTPClient creates a translator web service client
func NewHTTPClient(log *slog.Logger) *HTTPClient {
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Translate implements Translator
func (c *HTTPClient) Translate(ctx context.Context, apiURL string, input TranslationInput) (*TranslationOutput, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("translation request", "url", apiURL, "word", input.Word, "languages", input.DestinationLanguages)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translator request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("translator returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var output TranslationOutput
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, fmt.Errorf("failed to decode translation response: %w", err)
	}

	return &output, nil
}

// SaveTranslation writes the headword translations to translation.txt in
// the card directory
func SaveTranslation(cardDir, word, english, russian string) error {
	outputFile := filepath.Join(cardDir, "translation.txt")

	var b strings.Builder
	if english != "" {
		fmt.Fprintf(&b, "%s = %s\n", word, english)
	}
	if russian != "" {
		fmt.Fprintf(&b, "%s = %s\n", word, russian)
	}
	if b.Len() == 0 {
		return nil
	}

	if err := os.WriteFile(outputFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write translation file: %w", err)
	}

	return nil
}
