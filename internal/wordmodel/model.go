package wordmodel

// WordModel is the unified result of one successful lookup.
// It is built once by the lookup service and treated as read-only afterwards.
type WordModel struct {
	Word          string       `json:"word"`
	SoundURL      string       `json:"soundUrl,omitempty"`
	SoundFileName string       `json:"soundFileName,omitempty"`
	Definitions   []Definition `json:"definitions"`
	Variations    []Variant    `json:"variations"`
}

// Definition is one grammatical sense group of a headword
type Definition struct {
	Headword     Headword  `json:"headword"`
	PartOfSpeech string    `json:"partOfSpeech"`
	Endings      string    `json:"endings"` // Danish only, "||" separates ending groups
	Contexts     []Context `json:"contexts"`
}

// Headword holds the original headword and its optional translations
type Headword struct {
	Original string `json:"original"`
	English  string `json:"english,omitempty"`
	Russian  string `json:"russian,omitempty"`
}

// Context groups meanings by usage, e.g. "(vehicle)".
// Danish definitions always have a single context with empty ContextEN and Position.
type Context struct {
	ContextEN string    `json:"contextEN"`
	Position  string    `json:"position"`
	Meanings  []Meaning `json:"meanings"`
}

// Meaning is a single sense or translation line
type Meaning struct {
	Original             string    `json:"original"`
	Translation          string    `json:"translation,omitempty"`
	AlphabeticalPosition string    `json:"alphabeticalPosition"`
	Tag                  string    `json:"tag,omitempty"`
	ImageURL             string    `json:"imageUrl,omitempty"`
	Examples             []Example `json:"examples"`
}

// Example is one usage sentence with optional translations
type Example struct {
	Original string `json:"original"`
	English  string `json:"english,omitempty"`
	Russian  string `json:"russian,omitempty"`
}

// Variant links to an alternate word or sense that can be looked up by URL
type Variant struct {
	Word string `json:"word"`
	URL  string `json:"url"`
}

// MeaningCount returns the number of meanings across all contexts of the definition
func (d Definition) MeaningCount() int {
	n := 0
	for _, c := range d.Contexts {
		n += len(c.Meanings)
	}
	return n
}

// HasTranslation reports whether any translation was filled in for the headword
func (h Headword) HasTranslation() bool {
	return h.English != "" || h.Russian != ""
}
