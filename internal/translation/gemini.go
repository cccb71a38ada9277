package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"codeberg.org/snonux/copywords/internal/logging"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient translates with a Google Gemini model
type GeminiClient struct {
	model string
	cli   *genai.Client
	log   *slog.Logger
}

// NewGeminiClient creates a translator backed by the Gemini API
func NewGeminiClient(ctx context.Context, apiKey, model string, log *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key not found")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if log == nil {
		log = logging.Discard()
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{model: model, cli: cli, log: log}, nil
}

// Translate implements Translator. apiURL is ignored.
func (c *GeminiClient) Translate(ctx context.Context, _ string, input TranslationInput) (*TranslationOutput, error) {
	c.log.Debug("gemini translation request", "model", c.model, "word", input.Word)

	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: buildPrompt(input)}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return parseModelOutput(resp.Candidates[0].Content.Parts[0].Text)
}
