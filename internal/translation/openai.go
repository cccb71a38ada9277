package translation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/copywords/internal/logging"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIClient translates with an OpenAI chat model
type OpenAIClient struct {
	apiKey string
	model  string
	client *openai.Client
	log    *slog.Logger
}

// NewOpenAIClient creates a translator backed by the OpenAI API
func NewOpenAIClient(apiKey, model string, log *slog.Logger) *OpenAIClient {
	return NewOpenAIClientWithConfig(openai.DefaultConfig(apiKey), apiKey, model, log)
}

// NewOpenAIClientWithConfig creates a translator for an OpenAI compatible
// endpoint, e.g. a local proxy
func NewOpenAIClientWithConfig(config openai.ClientConfig, apiKey, model string, log *slog.Logger) *OpenAIClient {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if log == nil {
		log = logging.Discard()
	}
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(config),
		log:    log,
	}
}

// Translate implements Translator. apiURL is ignored.
func (c *OpenAIClient) Translate(ctx context.Context, _ string, input TranslationInput) (*TranslationOutput, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a dictionary translator. You answer with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   300,
		Temperature: 0.3,
	}

	c.log.Debug("openai translation request", "model", c.model, "word", input.Word)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return parseModelOutput(resp.Choices[0].Message.Content)
}
