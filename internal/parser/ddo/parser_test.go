package ddo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/copywords/internal/parser"
	"codeberg.org/snonux/copywords/internal/wordmodel"
)

func loadFixture(t *testing.T, name string) *PageParser {
	t.Helper()

	content, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	p := NewPageParser()
	require.NoError(t, p.LoadHTML(string(content)))
	return p
}

func loadString(t *testing.T, content string) *PageParser {
	t.Helper()

	p := NewPageParser()
	require.NoError(t, p.LoadHTML(content))
	return p
}

func TestLoadHTMLEmpty(t *testing.T) {
	p := NewPageParser()

	for _, content := range []string{"", "   \n\t"} {
		err := p.LoadHTML(content)
		assert.ErrorIs(t, err, parser.ErrEmptyContent)
	}
}

func TestParseBeforeLoad(t *testing.T) {
	p := NewPageParser()

	_, err := p.ParseHeadword()
	assert.ErrorIs(t, err, parser.ErrNotLoaded)

	_, err = p.ParseDefinitions()
	assert.ErrorIs(t, err, parser.ErrNotLoaded)

	_, err = p.ParseVariants()
	assert.ErrorIs(t, err, parser.ErrNotLoaded)
}

func TestParseHeadword(t *testing.T) {
	tests := []struct {
		fixture  string
		expected string
	}{
		{"haj.html", "haj"},
		{"grillspyd.html", "grillspyd"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			p := loadFixture(t, tt.fixture)

			headword, err := p.ParseHeadword()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, headword)
		})
	}
}

func TestParseHeadwordEntities(t *testing.T) {
	p := loadString(t, `<div class="definitionBoxTop"><span class="match">caf&eacute;<span class="super">2</span></span></div>`)

	headword, err := p.ParseHeadword()
	require.NoError(t, err)
	assert.Equal(t, "café", headword)
}

func TestParseHeadwordEscapedEntity(t *testing.T) {
	tests := []struct {
		markup   string
		expected string
	}{
		{`a&amp;lt;b`, "a&lt;b"},
		{`a&lt;b`, "a<b"},
		{`<b>fisk</b>e<span class="super">1</span>`, "fiske"},
	}

	for _, tt := range tests {
		p := loadString(t, `<div class="definitionBoxTop"><span class="match">`+tt.markup+`</span></div>`)

		headword, err := p.ParseHeadword()
		require.NoError(t, err)
		assert.Equal(t, tt.expected, headword, "markup %q", tt.markup)
	}
}

func TestParseHeadwordMissing(t *testing.T) {
	p := loadString(t, `<html><body><p>Der er ingen resultater</p></body></html>`)

	_, err := p.ParseHeadword()
	require.Error(t, err)
	assert.True(t, parser.IsParseError(err))
}

func TestParsePartOfSpeech(t *testing.T) {
	p := loadFixture(t, "haj.html")

	pos, err := p.ParsePartOfSpeech()
	require.NoError(t, err)
	assert.Equal(t, "substantiv, fælleskøn", pos)
}

func TestParseEndings(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "single group",
			html:     `<div id="id-boj"><span class="tekstmedium">-en, -er, -erne</span></div>`,
			expected: "-en, -er, -erne",
		},
		{
			name: "two groups",
			html: `<div id="id-boj"><span class="tekstmedium">-en, -er, -erne ` +
				`<span class="dividerDouble">||</span> -et, -, -ene</span></div>`,
			expected: "-en, -er, -erne||-et, -, -ene",
		},
		{
			name:     "absent",
			html:     `<div id="id-udt"></div>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loadString(t, tt.html)

			endings, err := p.ParseEndings()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, endings)
		})
	}
}

func TestParsePronunciation(t *testing.T) {
	p := loadFixture(t, "haj.html")

	pronunciation, err := p.ParsePronunciation()
	require.NoError(t, err)
	assert.Equal(t, "[ˈhɑjˀ]", pronunciation)
}

func TestParseSound(t *testing.T) {
	p := loadFixture(t, "grillspyd.html")

	sound, err := p.ParseSound()
	require.NoError(t, err)
	assert.Equal(t, "https://static.ordnet.dk/mp3/11019/11019985_1.mp3", sound)
}

func TestParseSoundMissing(t *testing.T) {
	p := loadString(t, `<div id="id-udt"><span class="lydskrift">[ˈhɑjˀ]</span></div>`)

	sound, err := p.ParseSound()
	require.NoError(t, err)
	assert.Empty(t, sound)
}

func TestParseSoundNotMP3(t *testing.T) {
	p := loadString(t, `<div id="id-udt"><a href="https://static.ordnet.dk/wav/haj.wav">lyt</a></div>`)

	_, err := p.ParseSound()
	require.Error(t, err)
	assert.True(t, parser.IsParseError(err))
}

func TestParseDefinitions(t *testing.T) {
	p := loadFixture(t, "haj.html")

	definitions, err := p.ParseDefinitions()
	require.NoError(t, err)
	require.Len(t, definitions, 3)

	expected := []struct {
		position string
		tag      string
		examples []string
	}{
		{"1", "", []string{"hajen kredsede om båden."}},
		{"2", "slang", []string{}},
		{"3", "slang", []string{"han er en haj til poker!"}},
	}

	for i, want := range expected {
		assert.Equal(t, want.position, definitions[i].Position, "definition %d", i)
		assert.Equal(t, want.tag, definitions[i].Tag, "definition %d", i)
		assert.Equal(t, want.examples, definitions[i].Examples, "definition %d", i)
	}

	assert.Equal(t, "person der er grisk og hensynsløs i forretninger", definitions[1].Meaning)
}

func TestParseDefinitionsExamplesPunctuated(t *testing.T) {
	p := loadFixture(t, "grillspyd.html")

	definitions, err := p.ParseDefinitions()
	require.NoError(t, err)
	require.Len(t, definitions, 1)
	assert.Equal(t, []string{
		"Sæt kødet og løget på grillspyd.",
		"grillspyddene vendes jævnligt.",
	}, definitions[0].Examples)
}

func TestParseDefinitionsFixedExpression(t *testing.T) {
	p := loadString(t, `
<div class="definitionBoxTop"><span class="match">rindende vand</span></div>
<div id="content-faste-udtryk">
  <div class="definitionIndent">
    <span class="definition">vand der kommer ud af en vandhane</span>
    <span class="citat">huset har ikke rindende vand</span>
  </div>
</div>`)

	definitions, err := p.ParseDefinitions()
	require.NoError(t, err)
	require.Len(t, definitions, 1)
	assert.Equal(t, "vand der kommer ud af en vandhane", definitions[0].Meaning)
	assert.Equal(t, []string{"huset har ikke rindende vand."}, definitions[0].Examples)
}

func TestParseDefinitionsMissing(t *testing.T) {
	p := loadString(t, `<div class="definitionBoxTop"><span class="match">haj</span></div>`)

	_, err := p.ParseDefinitions()
	require.Error(t, err)
	assert.True(t, parser.IsParseError(err))
}

func TestParseVariants(t *testing.T) {
	p := loadFixture(t, "haj.html")

	variants, err := p.ParseVariants()
	require.NoError(t, err)
	assert.Equal(t, []wordmodel.Variant{
		{Word: "haj (1)", URL: "https://ordnet.dk/ddo/ordbog?select=haj,1&query=haj"},
		{Word: "haj (2)", URL: "https://ordnet.dk/ddo/ordbog?select=haj,2&query=haj"},
		{Word: "hajfinne", URL: "https://ordnet.dk/ddo/ordbog?select=hajfinne&query=haj"},
	}, variants)
}

func TestParseVariantsChained(t *testing.T) {
	p := loadString(t, `<div class="searchResultBox">
<a href="ordbog?select=skat,2&amp;query=skatte">skat&nbsp;skatte</a>
<a href="ordbog?select=skatte&amp;query=skatte">  skatte
</a></div>`)

	variants, err := p.ParseVariants()
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "skat -> skatte", variants[0].Word)
	assert.Equal(t, "https://ordnet.dk/ddo/ordbog?select=skat,2&query=skatte", variants[0].URL)
	assert.Equal(t, "skatte", variants[1].Word)
}

// Parsing the same page with fresh parsers yields equal results
func TestParseIdempotent(t *testing.T) {
	first := loadFixture(t, "haj.html")
	second := loadFixture(t, "haj.html")

	defs1, err := first.ParseDefinitions()
	require.NoError(t, err)
	defs2, err := second.ParseDefinitions()
	require.NoError(t, err)
	assert.Equal(t, defs1, defs2)

	variants1, err := first.ParseVariants()
	require.NoError(t, err)
	variants2, err := second.ParseVariants()
	require.NoError(t, err)
	assert.Equal(t, variants1, variants2)
}
