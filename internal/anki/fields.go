package anki

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"codeberg.org/snonux/copywords/internal/wordmodel"
)

const (
	lineBreak = "<br>"

	tagStyle         = `style="color:rgba(0, 0, 0, 0.4)"`
	translationStyle = `style="color:rgb(0, 128, 0)"`
)

// ErrNothingSelected is returned when no meaning of a definition is selected
var ErrNothingSelected = errors.New("nothing selected")

// CompileFront returns the headword
func CompileFront(def wordmodel.Definition) string {
	return html.EscapeString(def.Headword.Original)
}

// CompileBack renders the selected meanings of a definition, numbered when
// there is more than one
func CompileBack(def wordmodel.Definition, defIndex int, sel *Selection) (string, error) {
	var meanings []string

	for c, ctx := range def.Contexts {
		for m, meaning := range ctx.Meanings {
			if !sel.MeaningSelected(defIndex, c, m) {
				continue
			}
			meanings = append(meanings, renderMeaning(ctx, meaning))
		}
	}

	if len(meanings) == 0 {
		return "", fmt.Errorf("definition %d: %w", defIndex+1, ErrNothingSelected)
	}

	return joinNumbered(meanings), nil
}

func renderMeaning(ctx wordmodel.Context, meaning wordmodel.Meaning) string {
	var b strings.Builder

	if meaning.Tag != "" {
		fmt.Fprintf(&b, "<span %s>%s</span> ", tagStyle, html.EscapeString(strings.ToUpper(meaning.Tag)))
	}
	b.WriteString(html.EscapeString(meaning.Original))
	if ctx.ContextEN != "" {
		b.WriteString(" " + html.EscapeString(ctx.ContextEN))
	}
	if meaning.Translation != "" {
		fmt.Fprintf(&b, "%s<span %s>%s</span>", lineBreak, translationStyle, html.EscapeString(meaning.Translation))
	}

	return b.String()
}

// CompilePartOfSpeech returns the part of speech
func CompilePartOfSpeech(def wordmodel.Definition) string {
	return html.EscapeString(def.PartOfSpeech)
}

// CompileEndings returns the inflection endings
func CompileEndings(def wordmodel.Definition) string {
	return html.EscapeString(def.Endings)
}

// CompileExamples renders the selected examples of the selected meanings,
// each followed by its English translation when there is one
func CompileExamples(def wordmodel.Definition, defIndex int, sel *Selection) string {
	var examples []string

	for c, ctx := range def.Contexts {
		for m, meaning := range ctx.Meanings {
			if !sel.MeaningSelected(defIndex, c, m) {
				continue
			}
			for e, example := range meaning.Examples {
				if !sel.ExampleSelected(defIndex, c, m, e) {
					continue
				}
				line := html.EscapeString(example.Original)
				if example.English != "" {
					line += fmt.Sprintf(" <span %s>%s</span>", translationStyle, html.EscapeString(example.English))
				}
				examples = append(examples, line)
			}
		}
	}

	return joinNumbered(examples)
}

// CompileTranslation returns the English and Russian headword translations
func CompileTranslation(def wordmodel.Definition) string {
	var parts []string
	if def.Headword.English != "" {
		parts = append(parts, def.Headword.English)
	}
	if def.Headword.Russian != "" {
		parts = append(parts, def.Headword.Russian)
	}
	return html.EscapeString(strings.Join(parts, " / "))
}

// CompileCard builds the card for one definition of model. The media
// fields are left for the caller, the media URLs are filled in.
func CompileCard(model *wordmodel.WordModel, defIndex int, sel *Selection) (Card, error) {
	if defIndex < 0 || defIndex >= len(model.Definitions) {
		return Card{}, fmt.Errorf("definition %d does not exist", defIndex+1)
	}
	def := model.Definitions[defIndex]

	back, err := CompileBack(def, defIndex, sel)
	if err != nil {
		return Card{}, err
	}

	return Card{
		Front:        CompileFront(def),
		Back:         back,
		PartOfSpeech: CompilePartOfSpeech(def),
		Endings:      CompileEndings(def),
		Examples:     CompileExamples(def, defIndex, sel),
		Translation:  CompileTranslation(def),
		SoundURL:     model.SoundURL,
		ImageURL:     firstImage(def, defIndex, sel),
	}, nil
}

// CompileCards builds one card per definition with at least one selected
// meaning
func CompileCards(model *wordmodel.WordModel, sel *Selection) ([]Card, error) {
	if err := sel.Validate(model); err != nil {
		return nil, err
	}

	var cards []Card
	for i := range model.Definitions {
		card, err := CompileCard(model, i, sel)
		if errors.Is(err, ErrNothingSelected) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%q: %w", model.Word, ErrNothingSelected)
	}

	return cards, nil
}

func firstImage(def wordmodel.Definition, defIndex int, sel *Selection) string {
	for c, ctx := range def.Contexts {
		for m, meaning := range ctx.Meanings {
			if meaning.ImageURL != "" && sel.MeaningSelected(defIndex, c, m) {
				return meaning.ImageURL
			}
		}
	}
	return ""
}

func joinNumbered(lines []string) string {
	if len(lines) == 1 {
		return lines[0]
	}

	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = strconv.Itoa(i+1) + ". " + line
	}
	return strings.Join(numbered, lineBreak)
}
