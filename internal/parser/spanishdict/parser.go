// Package spanishdict extracts dictionary data from spanishdict.com pages.
// The site renders from a JSON blob embedded in the page, so unlike the DDO
// parser this one decodes JSON instead of walking the DOM.
package spanishdict

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"codeberg.org/snonux/copywords/internal/parser"
	"codeberg.org/snonux/copywords/internal/wordmodel"
)

const (
	source = "spanishdict"

	componentDataMarker = "window.SD_COMPONENT_DATA"

	// Pronunciations recorded by this speaker in Spain are preferred
	soundRegion    = "SPAIN"
	soundSpeakerID = 7

	soundURLFormat = "https://d10gt6izjc94x0.cloudfront.net/desktop/lang_es_pron_%s_speaker_7_syllable_all_version_50.mp4"

	// ImageBaseURL is where SpanishDict serves translation images from
	ImageBaseURL = "https://d25rq8gxcq0p71.cloudfront.net/dictionary-images/300/"
)

// ErrNilWordJSON is returned when a nil WordJSON is passed to a Parse function
var ErrNilWordJSON = errors.New("spanishdict: word json cannot be nil")

// ParseWordJSON finds the SD_COMPONENT_DATA script in the page and decodes
// it. A nil WordJSON without error means the site answered with its "not
// found" page instead of an entry.
func ParseWordJSON(html string) (*WordJSON, error) {
	if strings.TrimSpace(html) == "" {
		return nil, parser.ErrEmptyContent
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("spanishdict: failed to parse html: %w", err)
	}

	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, componentDataMarker) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil, parser.NewParseError(source, "script",
			"script assigning "+componentDataMarker+" not found")
	}

	// Strip "window.SD_COMPONENT_DATA = " and decode the object literal
	// that follows. The decoder stops at the end of the object, so the
	// trailing ";" and anything after it are ignored.
	rest := script[strings.Index(script, componentDataMarker)+len(componentDataMarker):]
	eq := strings.Index(rest, "=")
	if eq < 0 {
		return nil, parser.NewParseError(source, componentDataMarker, "assignment not found")
	}

	var word WordJSON
	if err := json.NewDecoder(strings.NewReader(rest[eq+1:])).Decode(&word); err != nil {
		return nil, fmt.Errorf("spanishdict: failed to decode %s: %w", componentDataMarker, err)
	}

	if word.ResultCardHeaderProps == nil {
		return nil, nil
	}

	return &word, nil
}

// ParseHeadword returns the word as SpanishDict displays it
func ParseHeadword(word *WordJSON) (string, error) {
	if word == nil {
		return "", ErrNilWordJSON
	}
	if word.ResultCardHeaderProps == nil {
		return "", parser.NewParseError(source, "resultCardHeaderProps", "header data missing")
	}

	return strings.TrimSpace(word.ResultCardHeaderProps.HeadwordAndQuickdefsProps.Headword.DisplayText), nil
}

// ParseSound returns the id of the pronunciation recorded in Spain by the
// preferred speaker, or "" when there is none
func ParseSound(word *WordJSON) (string, error) {
	if word == nil {
		return "", ErrNilWordJSON
	}
	if word.ResultCardHeaderProps == nil {
		return "", nil
	}

	for _, p := range word.ResultCardHeaderProps.HeadwordAndQuickdefsProps.Headword.Pronunciations {
		if strings.EqualFold(p.Region, soundRegion) && p.SpeakerID == soundSpeakerID {
			return strconv.Itoa(p.ID), nil
		}
	}

	return "", nil
}

// SoundURL builds the address of the mp4 pronunciation for a ParseSound id
func SoundURL(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(soundURLFormat, id)
}

// ParseTranslations flattens all part-of-speech groups of the entry into
// one WordVariant each. A page without a dictionary entry has no variants.
func ParseTranslations(word *WordJSON) ([]WordVariant, error) {
	if word == nil {
		return nil, ErrNilWordJSON
	}

	entry := word.SdDictionaryResultsProps.Entry
	if entry == nil {
		return []WordVariant{}, nil
	}

	headwordText, _ := ParseHeadword(word)

	variants := []WordVariant{}
	for _, nd := range entry.Neodict {
		wordES := strings.TrimSpace(nd.Subheadword)
		if wordES == "" {
			wordES = headwordText
		}

		for _, group := range nd.PosGroups {
			variant := WordVariant{
				WordES:   wordES,
				Type:     group.Pos.NameEn,
				Contexts: []wordmodel.Context{},
			}

			for i, s := range group.Senses {
				variant.Contexts = append(variant.Contexts, wordmodel.Context{
					ContextEN: contextLabel(s),
					Position:  strconv.Itoa(i + 1),
					Meanings:  meanings(s),
				})
			}

			variants = append(variants, variant)
		}
	}

	return variants, nil
}

func meanings(s sense) []wordmodel.Meaning {
	result := make([]wordmodel.Meaning, 0, len(s.Translations))

	for i, t := range s.Translations {
		examples := make([]wordmodel.Example, 0, len(t.Examples))
		for _, e := range t.Examples {
			examples = append(examples, wordmodel.Example{
				Original: strings.TrimSpace(e.TextEs),
				English:  strings.TrimSpace(e.TextEn),
			})
		}

		result = append(result, wordmodel.Meaning{
			Original:             translationLabel(t),
			AlphabeticalPosition: alphabeticalPosition(i),
			ImageURL:             imageURL(t.ImagePath),
			Examples:             examples,
		})
	}

	return result
}

// contextLabel renders a sense context, e.g. "FORMAL (vehicle) (Spain)"
func contextLabel(s sense) string {
	var parts []string

	if register := joinLabels(s.RegisterLabels); register != "" {
		parts = append(parts, register)
	}
	if context := strings.TrimSpace(s.ContextEn); context != "" {
		parts = append(parts, "("+context+")")
	}
	if region := joinLabels(s.Regions); region != "" {
		parts = append(parts, "("+region+")")
	}

	return strings.Join(parts, " ")
}

// translationLabel renders a translation, e.g. "car (colloquial) (vehicle)"
func translationLabel(t translation) string {
	label := strings.TrimSpace(t.Translation)

	if register := joinLabels(t.RegisterLabels); register != "" {
		label += " (" + strings.ToLower(register) + ")"
	}
	if context := strings.TrimSpace(t.ContextEn); context != "" {
		label += " (" + context + ")"
	}

	return label
}

func joinLabels(labels []label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		if name := strings.TrimSpace(l.NameEn); name != "" {
			names = append(names, name)
		}
	}
	return strings.ToUpper(strings.Join(names, ", "))
}

// alphabeticalPosition maps 0, 1, ... 25, 26 to "a", "b", ... "z", "aa"
func alphabeticalPosition(i int) string {
	letter := string(rune('a' + i%26))
	return strings.Repeat(letter, i/26+1)
}

// imageURL decodes and re-encodes each segment of the image path since SpanishDict stores
// some names escaped and some raw
func imageURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if name, err := url.PathUnescape(segment); err == nil {
			segment = name
		}
		segments[i] = url.PathEscape(segment)
	}

	return ImageBaseURL + strings.Join(segments, "/")
}
