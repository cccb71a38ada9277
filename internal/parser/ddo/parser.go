// Package ddo extracts dictionary data from entry pages of Den Danske
// Ordbog (ordnet.dk/ddo).
package ddo

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"codeberg.org/snonux/copywords/internal/parser"
	"codeberg.org/snonux/copywords/internal/wordmodel"
)

const (
	source = "ddo"

	// BaseURL is the page relative variant links are resolved against
	BaseURL = "https://ordnet.dk/ddo/ordbog"

	// EndingsSeparator separates ending groups in the value ParseEndings returns
	EndingsSeparator = "||"

	variantArrow = " -> "
)

// Selectors of the page elements the parser depends on
const (
	headwordSelector      = "div.definitionBoxTop span.match"
	partOfSpeechSelector  = "div.definitionBoxTop span.tekstmedium"
	endingsSelector       = "#id-boj span.tekstmedium"
	pronunciationSelector = "#id-udt span.lydskrift"
	soundSelector         = "#id-udt a"
	definitionsSelector   = "#content-betydninger"
	fixedExprSelector     = "#content-faste-udtryk"
	indentSelector        = "div.definitionIndent"
	variantsSelector      = "div.searchResultBox a"
)

// Definition is one numbered sense as DDO presents it
type Definition struct {
	Meaning  string
	Tag      string
	Position string
	Examples []string
}

// PageParser parses a single DDO entry page. LoadHTML must succeed before
// any of the Parse methods is called.
type PageParser struct {
	doc *goquery.Document
}

// NewPageParser creates a parser with no page loaded
func NewPageParser() *PageParser {
	return &PageParser{}
}

// LoadHTML parses the raw page into a DOM
func (p *PageParser) LoadHTML(content string) error {
	if strings.TrimSpace(content) == "" {
		return parser.ErrEmptyContent
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("ddo: failed to parse html: %w", err)
	}

	p.doc = doc
	return nil
}

// ParseHeadword returns the entry word without its homograph number
func (p *PageParser) ParseHeadword() (string, error) {
	if p.doc == nil {
		return "", parser.ErrNotLoaded
	}

	span := p.doc.Find(headwordSelector).First()
	if span.Length() == 0 {
		return "", parser.NewParseError(source, headwordSelector, "headword not found")
	}

	// "haj<span class="super">1</span>" must become "haj"
	var b strings.Builder
	for _, n := range span.Nodes {
		writeHeadwordText(&b, n)
	}

	return parser.NormalizeWhitespace(b.String()), nil
}

// writeHeadwordText collects the decoded text below n, skipping homograph
// numbers
func writeHeadwordText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			if !hasClass(c, "super") {
				writeHeadwordText(b, c)
			}
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && slices.Contains(strings.Fields(attr.Val), class) {
			return true
		}
	}
	return false
}

// ParsePartOfSpeech returns e.g. "substantiv, fælleskøn", or "" when the
// page has none (fixed expressions)
func (p *PageParser) ParsePartOfSpeech() (string, error) {
	if p.doc == nil {
		return "", parser.ErrNotLoaded
	}

	span := p.doc.Find(partOfSpeechSelector).First()
	return parser.NormalizeWhitespace(span.Text()), nil
}

// ParseEndings returns the inflection endings. Entries with several
// inflection patterns have them joined with EndingsSeparator.
func (p *PageParser) ParseEndings() (string, error) {
	if p.doc == nil {
		return "", parser.ErrNotLoaded
	}

	span := p.doc.Find(endingsSelector).First()
	if span.Length() == 0 {
		return "", nil
	}

	if span.Find("span.dividerDouble").Length() == 0 {
		return parser.NormalizeWhitespace(span.Text()), nil
	}

	var groups []string
	var current strings.Builder
	flush := func() {
		if group := parser.NormalizeWhitespace(current.String()); group != "" {
			groups = append(groups, group)
		}
		current.Reset()
	}

	span.Contents().Each(func(_ int, s *goquery.Selection) {
		if s.Is("span.dividerDouble") {
			flush()
			return
		}
		current.WriteString(s.Text())
	})
	flush()

	return strings.Join(groups, EndingsSeparator), nil
}

// ParsePronunciation returns the phonetic transcription, e.g. "[ˈhɑjˀ]"
func (p *PageParser) ParsePronunciation() (string, error) {
	if p.doc == nil {
		return "", parser.ErrNotLoaded
	}

	span := p.doc.Find(pronunciationSelector).First()
	return parser.NormalizeWhitespace(span.Text()), nil
}

// ParseSound returns the URL of the pronunciation mp3, or "" when the
// entry has no recording
func (p *PageParser) ParseSound() (string, error) {
	if p.doc == nil {
		return "", parser.ErrNotLoaded
	}

	anchor := p.doc.Find(soundSelector).First()
	if anchor.Length() == 0 {
		return "", nil
	}

	href, _ := anchor.Attr("href")
	if !strings.HasSuffix(strings.ToLower(href), ".mp3") {
		return "", parser.NewParseError(source, soundSelector,
			fmt.Sprintf("sound link %q does not point to an mp3 file", href))
	}

	return href, nil
}

// ParseDefinitions returns the numbered senses of the entry. Pages for fixed
// expressions have no definitions section, their senses are read from the
// fixed expressions section instead.
func (p *PageParser) ParseDefinitions() ([]Definition, error) {
	if p.doc == nil {
		return nil, parser.ErrNotLoaded
	}

	container := p.doc.Find(definitionsSelector).First()
	if container.Length() == 0 {
		container = p.doc.Find(fixedExprSelector).First()
	}
	if container.Length() == 0 {
		return nil, parser.NewParseError(source, definitionsSelector, "definitions section not found")
	}

	definitions := []Definition{}
	container.Find("span.definition").Each(func(_ int, span *goquery.Selection) {
		meaning := parser.NormalizeWhitespace(span.Text())
		if meaning == "" {
			return
		}

		def := Definition{
			Meaning:  meaning,
			Position: strconv.Itoa(len(definitions) + 1),
			Examples: []string{},
		}

		if block := span.Closest(indentSelector); block.Length() > 0 {
			if tag := scoped(block, "span.stempel").First(); tag.Length() > 0 {
				def.Tag = parser.NormalizeWhitespace(tag.Text())
			}
			scoped(block, "span.citat").Each(func(_ int, s *goquery.Selection) {
				if example := parser.NormalizeWhitespace(s.Text()); example != "" {
					def.Examples = append(def.Examples, parser.EnsureTerminalPunctuation(example))
				}
			})
		}

		definitions = append(definitions, def)
	})

	return definitions, nil
}

// ParseVariants returns the entries listed in the search result box, e.g.
// "haj (1)" or "skat -> skatte"
func (p *PageParser) ParseVariants() ([]wordmodel.Variant, error) {
	if p.doc == nil {
		return nil, parser.ErrNotLoaded
	}

	base, err := url.Parse(BaseURL)
	if err != nil {
		return nil, err
	}

	variants := []wordmodel.Variant{}
	p.doc.Find(variantsSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		word := variantText(a)
		if word == "" {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		variants = append(variants, wordmodel.Variant{
			Word: word,
			URL:  base.ResolveReference(ref).String(),
		})
	})

	return variants, nil
}

// variantText renders the anchor text with homograph numbers in parentheses
// and no-break spaces between chained words replaced by an arrow
func variantText(a *goquery.Selection) string {
	var b strings.Builder
	a.Contents().Each(func(_ int, s *goquery.Selection) {
		if s.Is("span.super") {
			if n := strings.TrimSpace(s.Text()); n != "" {
				b.WriteString(" (" + n + ")")
			}
			return
		}
		b.WriteString(s.Text())
	})

	text := strings.ReplaceAll(b.String(), "\u00a0", variantArrow)
	return parser.NormalizeWhitespace(text)
}

// scoped finds the elements below block whose nearest indent block is block
// itself, so examples and tags of nested senses are not picked up
func scoped(block *goquery.Selection, selector string) *goquery.Selection {
	owner := block.Get(0)
	return block.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest(indentSelector).Get(0) == owner
	})
}
