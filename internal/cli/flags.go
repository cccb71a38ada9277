package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	OutputDir    string
	Language     string
	BatchFile    string
	URL          string
	Selection    string
	SkipMedia    bool
	PrintJSON    bool
	GenerateAnki bool
	AnkiCSV      bool
	DeckName     string
	ListModels   bool
	Archive      bool
	LogLevel     string
	LogFormat    string

	// Translator flags
	Translator    string // api, openai or gemini
	TranslatorURL string
	OpenAIModel   string
	GeminiModel   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Language:    "danish",
		DeckName:    "Copywords Vocabulary",
		LogLevel:    "warn",
		LogFormat:   "text",
		Translator:  "api",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
	}
}
