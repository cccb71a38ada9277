package translation

import (
	"encoding/json"
	"fmt"
	"strings"
)

var languageNames = map[string]string{
	"da": "Danish",
	"es": "Spanish",
	"en": "English",
	"ru": "Russian",
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// buildPrompt asks a chat model for the same JSON document the translator
// web service returns
func buildPrompt(input TranslationInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Translate the %s word '%s'", languageName(input.SourceLanguage), input.Word)
	if input.PartOfSpeech != "" {
		fmt.Fprintf(&b, " (%s)", input.PartOfSpeech)
	}
	if input.Meaning != "" {
		fmt.Fprintf(&b, " in the meaning \"%s\"", input.Meaning)
	}
	b.WriteString(".\n")

	if len(input.Examples) > 0 {
		b.WriteString("It is used like this:\n")
		for _, example := range input.Examples {
			fmt.Fprintf(&b, "- %s\n", example)
		}
	}

	names := make([]string, 0, len(input.DestinationLanguages))
	for _, code := range input.DestinationLanguages {
		names = append(names, fmt.Sprintf("%s (%s)", languageName(code), code))
	}
	fmt.Fprintf(&b, "Translate it to: %s.\n", strings.Join(names, ", "))

	b.WriteString(`Respond with JSON only, in this form: ` +
		`{"translations":[{"language":"<code>","translationVariants":["<translation>", ...]}]}. ` +
		`Give at most three short variants per language, most common first.`)

	return b.String()
}

// parseModelOutput decodes the JSON answer of a chat model, tolerating
// markdown code fences around it
func parseModelOutput(content string) (*TranslationOutput, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var output TranslationOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &output); err != nil {
		return nil, fmt.Errorf("failed to decode model answer: %w", err)
	}
	return &output, nil
}
