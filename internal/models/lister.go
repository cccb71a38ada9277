package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithConfig(openai.DefaultConfig(apiKey), apiKey)
}

// NewListerWithConfig creates a lister for an OpenAI compatible endpoint
func NewListerWithConfig(config openai.ClientConfig, apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// ChatModels returns the sorted IDs of models that can translate
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure openai.key in .copywords.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)

	return chatModels, nil
}

// ListAvailableModels prints the chat models, marking the current one
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer, current string) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat/Translation Models (use --openai-model to pick one):")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		marker := " "
		if model == current {
			marker = "*"
		}
		fmt.Fprintf(w, " %s%s\n", marker, model)
	}

	return nil
}

// isChatModel keeps text chat models and drops speech, image and
// embedding models
func isChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "image", "dall-e", "embedding", "whisper", "moderation"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt") || strings.Contains(id, "chat") ||
		strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4")
}
