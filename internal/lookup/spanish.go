package lookup

import (
	"context"
	"strings"

	"codeberg.org/snonux/copywords/internal"
	"codeberg.org/snonux/copywords/internal/parser/spanishdict"
	"codeberg.org/snonux/copywords/internal/translation"
	"codeberg.org/snonux/copywords/internal/wordmodel"
)

// spanishWord maps a SpanishDict page to a model with one definition per
// part of speech. The site has no inflection endings and no variant links.
func (s *Service) spanishWord(ctx context.Context, html string, opts Options) (*wordmodel.WordModel, error) {
	word, err := spanishdict.ParseWordJSON(html)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, nil
	}

	headword, err := spanishdict.ParseHeadword(word)
	if err != nil {
		return nil, err
	}
	soundID, err := spanishdict.ParseSound(word)
	if err != nil {
		return nil, err
	}
	variants, err := spanishdict.ParseTranslations(word)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, nil
	}

	definitions := make([]wordmodel.Definition, 0, len(variants))
	for _, v := range variants {
		var meaningTexts, exampleTexts []string
		for _, c := range v.Contexts {
			for _, m := range c.Meanings {
				meaningTexts = append(meaningTexts, m.Original)
				for _, e := range m.Examples {
					exampleTexts = append(exampleTexts, e.Original)
				}
			}
		}

		translated, err := s.translateHeadword(ctx, opts, translation.TranslationInput{
			Word:         v.WordES,
			Meaning:      strings.Join(meaningTexts, "; "),
			PartOfSpeech: v.Type,
			Examples:     exampleTexts,
		})
		if err != nil {
			return nil, err
		}

		definitions = append(definitions, wordmodel.Definition{
			Headword:     translated,
			PartOfSpeech: v.Type,
			Contexts:     v.Contexts,
		})
	}

	return &wordmodel.WordModel{
		Word:          headword,
		SoundURL:      spanishdict.SoundURL(soundID),
		SoundFileName: internal.SanitizeFilename(headword) + ".mp4",
		Definitions:   definitions,
		Variations:    []wordmodel.Variant{},
	}, nil
}
