package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() TranslationInput {
	return TranslationInput{
		SourceLanguage:       "da",
		DestinationLanguages: []string{English, Russian},
		Word:                 "haj",
		Meaning:              "stor, langstrakt, ofte farlig rovfisk",
		PartOfSpeech:         "substantiv, fælleskøn",
		Examples:             []string{"hajen kredsede om båden."},
	}
}

func TestHTTPClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var input TranslationInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "haj", input.Word)
		assert.Equal(t, []string{"en", "ru"}, input.DestinationLanguages)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"translations":[`+
			`{"language":"en","translationVariants":["shark"]},`+
			`{"language":"ru","translationVariants":["акула"]}]}`)
	}))
	defer server.Close()

	output, err := NewHTTPClient(nil).Translate(context.Background(), server.URL, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"shark"}, output.Variants(English))
	assert.Equal(t, []string{"акула"}, output.Variants(Russian))
	assert.Nil(t, output.Variants("de"))
}

func TestHTTPClientTranslateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "translator overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPClient(nil).Translate(context.Background(), server.URL, sampleInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "translator overloaded")
}

func TestOpenAIClientNoAPIKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", nil).Translate(context.Background(), "", sampleInput())
	require.Error(t, err)
	assert.Equal(t, "OpenAI API key not found", err.Error())
}

func TestOpenAIClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultOpenAIModel, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "'haj'")

		answer := `{"translations":[{"language":"en","translationVariants":["shark","loan shark"]}]}`
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  DefaultOpenAIModel,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	defer server.Close()

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	output, err := NewOpenAIClientWithConfig(config, "test-key", "", nil).
		Translate(context.Background(), "", sampleInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"shark", "loan shark"}, output.Variants(English))
}

func TestOpenAIClient_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	output, err := NewOpenAIClient(apiKey, "", nil).Translate(context.Background(), "", sampleInput())
	require.NoError(t, err)
	assert.NotEmpty(t, output.Variants(English))
	t.Logf("Translation of 'haj': %v", output.Translations)
}

func TestNewGeminiClientNoAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "", nil)
	assert.Error(t, err)
}

func TestGeminiClient_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	client, err := NewGeminiClient(context.Background(), apiKey, "", nil)
	require.NoError(t, err)

	output, err := client.Translate(context.Background(), "", sampleInput())
	require.NoError(t, err)
	assert.NotEmpty(t, output.Variants(English))
}

func TestParseModelOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain", `{"translations":[{"language":"en","translationVariants":["shark"]}]}`, false},
		{"fenced", "```json\n{\"translations\":[{\"language\":\"en\",\"translationVariants\":[\"shark\"]}]}\n```", false},
		{"garbage", "Sure! The translation is shark.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := parseModelOutput(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"shark"}, output.Variants(English))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(sampleInput())

	for _, want := range []string{"Danish word 'haj'", "substantiv, fælleskøn", "hajen kredsede om båden.", "English (en)", "Russian (ru)"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestSaveTranslation(t *testing.T) {
	dir := t.TempDir()

	if err := SaveTranslation(dir, "haj", "shark", "акула"); err != nil {
		t.Fatalf("SaveTranslation failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "translation.txt"))
	if err != nil {
		t.Fatalf("Failed to read translation file: %v", err)
	}

	expected := "haj = shark\nhaj = акула\n"
	if string(content) != expected {
		t.Errorf("Expected content %q, got %q", expected, string(content))
	}
}

func TestSaveTranslationEmpty(t *testing.T) {
	dir := t.TempDir()

	if err := SaveTranslation(dir, "haj", "", ""); err != nil {
		t.Fatalf("SaveTranslation failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "translation.txt")); !os.IsNotExist(err) {
		t.Error("Expected no translation file for empty translations")
	}
}
