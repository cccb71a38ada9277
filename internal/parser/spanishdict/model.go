package spanishdict

import "codeberg.org/snonux/copywords/internal/wordmodel"

// WordJSON is the part of window.SD_COMPONENT_DATA the parser reads
type WordJSON struct {
	ResultCardHeaderProps    *resultCardHeaderProps   `json:"resultCardHeaderProps"`
	SdDictionaryResultsProps sdDictionaryResultsProps `json:"sdDictionaryResultsProps"`
}

type resultCardHeaderProps struct {
	HeadwordAndQuickdefsProps headwordAndQuickdefsProps `json:"headwordAndQuickdefsProps"`
}

type headwordAndQuickdefsProps struct {
	Headword headword `json:"headword"`
}

type headword struct {
	DisplayText     string          `json:"displayText"`
	TextToPronounce string          `json:"textToPronounce"`
	Pronunciations  []pronunciation `json:"pronunciations"`
}

type pronunciation struct {
	ID        int    `json:"id"`
	IPA       string `json:"ipa"`
	Region    string `json:"region"`
	SpeakerID int    `json:"speakerId"`
}

type sdDictionaryResultsProps struct {
	Entry *entry `json:"entry"`
}

type entry struct {
	Neodict []neodict `json:"neodict"`
}

type neodict struct {
	Subheadword string     `json:"subheadword"`
	PosGroups   []posGroup `json:"posGroups"`
}

type posGroup struct {
	Pos    pos     `json:"pos"`
	Senses []sense `json:"senses"`
}

type pos struct {
	NameEn string `json:"nameEn"`
}

type sense struct {
	ContextEn      string        `json:"contextEn"`
	RegisterLabels []label       `json:"registerLabels"`
	Regions        []label       `json:"regions"`
	Translations   []translation `json:"translations"`
}

type translation struct {
	Translation    string    `json:"translation"`
	ContextEn      string    `json:"contextEn"`
	RegisterLabels []label   `json:"registerLabels"`
	ImagePath      string    `json:"imagePath"`
	Examples       []example `json:"examples"`
}

type example struct {
	TextEs string `json:"textEs"`
	TextEn string `json:"textEn"`
}

type label struct {
	NameEn string `json:"nameEn"`
}

// WordVariant is one part-of-speech group of a SpanishDict entry
type WordVariant struct {
	WordES   string
	Type     string
	Contexts []wordmodel.Context
}
