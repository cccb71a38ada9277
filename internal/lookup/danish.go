package lookup

import (
	"context"
	"strings"

	"codeberg.org/snonux/copywords/internal"
	"codeberg.org/snonux/copywords/internal/parser/ddo"
	"codeberg.org/snonux/copywords/internal/translation"
	"codeberg.org/snonux/copywords/internal/wordmodel"
)

// danishWord maps a DDO page to a model with one definition holding one
// context with all senses of the entry
func (s *Service) danishWord(ctx context.Context, html string, opts Options) (*wordmodel.WordModel, error) {
	p := ddo.NewPageParser()
	if err := p.LoadHTML(html); err != nil {
		return nil, err
	}

	headword, err := p.ParseHeadword()
	if err != nil {
		return nil, err
	}
	partOfSpeech, err := p.ParsePartOfSpeech()
	if err != nil {
		return nil, err
	}
	endings, err := p.ParseEndings()
	if err != nil {
		return nil, err
	}
	soundURL, err := p.ParseSound()
	if err != nil {
		return nil, err
	}
	definitions, err := p.ParseDefinitions()
	if err != nil {
		return nil, err
	}
	variants, err := p.ParseVariants()
	if err != nil {
		return nil, err
	}

	meanings := make([]wordmodel.Meaning, 0, len(definitions))
	var meaningTexts, exampleTexts []string
	for _, def := range definitions {
		examples := make([]wordmodel.Example, 0, len(def.Examples))
		for _, e := range def.Examples {
			examples = append(examples, wordmodel.Example{Original: e})
			exampleTexts = append(exampleTexts, e)
		}

		meanings = append(meanings, wordmodel.Meaning{
			Original:             def.Meaning,
			AlphabeticalPosition: def.Position,
			Tag:                  def.Tag,
			Examples:             examples,
		})
		meaningTexts = append(meaningTexts, def.Meaning)
	}

	translated, err := s.translateHeadword(ctx, opts, translation.TranslationInput{
		Word:         headword,
		Meaning:      strings.Join(meaningTexts, "; "),
		PartOfSpeech: partOfSpeech,
		Examples:     exampleTexts,
	})
	if err != nil {
		return nil, err
	}

	return &wordmodel.WordModel{
		Word:          headword,
		SoundURL:      soundURL,
		SoundFileName: internal.SanitizeFilename(headword) + ".mp3",
		Definitions: []wordmodel.Definition{{
			Headword:     translated,
			PartOfSpeech: partOfSpeech,
			Endings:      endings,
			Contexts: []wordmodel.Context{{
				Meanings: meanings,
			}},
		}},
		Variations: variants,
	}, nil
}
