package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/copywords/internal"
)

// Translator backends
const (
	TranslatorAPI    = "api"
	TranslatorOpenAI = "openai"
	TranslatorGemini = "gemini"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "copywords [word]",
		Short: "Danish and Spanish Anki Flashcard Generator",
		Long: `copywords looks words up in Den Danske Ordbog (ordnet.dk) or SpanishDict
and turns the selected meanings into Anki flashcards with pronunciation
and pictures.

Examples:
  copywords haj                              # Look up a Danish word
  copywords --lang es coche                  # Look up a Spanish word
  copywords haj --select 1.1.1,1.1.3 --anki  # Selected meanings into an APKG
  copywords --url "https://ordnet.dk/ddo/ordbog?select=haj,2&query=haj"
  copywords --batch words.txt --anki         # Process multiple words from file`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultOutputDir is where card directories go unless configured otherwise
func DefaultOutputDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "copywords", "cards")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.copywords.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", DefaultOutputDir(), "Output directory for card directories")
	cmd.Flags().StringVarP(&flags.Language, "lang", "l", flags.Language, "Source language: danish (da) or spanish (es)")
	cmd.Flags().StringVar(&flags.URL, "url", "", "Look up a dictionary page directly, e.g. a variant link")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process words from file (one per line)")
	cmd.Flags().StringVarP(&flags.Selection, "select", "s", "", "Meanings to put on cards, e.g. 1.1.1,1.1.2.1 (default: all)")
	cmd.Flags().BoolVar(&flags.SkipMedia, "skip-media", false, "Skip sound and image download")
	cmd.Flags().BoolVar(&flags.PrintJSON, "json", false, "Print the looked up word as JSON instead of creating cards")
	cmd.Flags().BoolVar(&flags.GenerateAnki, "anki", false, "Generate Anki import file (APKG format by default, use --anki-csv for legacy CSV)")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Generate legacy CSV format instead of APKG when using --anki")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List OpenAI chat models usable for translation")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the cards directory into a timestamped archive")

	// Translator flags
	cmd.Flags().StringVar(&flags.Translator, "translator", flags.Translator, "Translator backend: api, openai or gemini")
	cmd.Flags().StringVar(&flags.TranslatorURL, "translator-url", "", "Translator API URL for the api backend (empty disables translation)")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for the openai backend")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for the gemini backend")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("lookup.language", cmd.Flags().Lookup("lang"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("translator.backend", cmd.Flags().Lookup("translator"))
	viper.BindPFlag("translator.url", cmd.Flags().Lookup("translator-url"))
	viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("gemini.model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("anki.deck_name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
}

// ApplyConfig copies configured values into flags the user did not set on
// the command line
func ApplyConfig(flags *Flags) {
	flags.Language = viper.GetString("lookup.language")
	flags.OutputDir = viper.GetString("output.directory")
	flags.Translator = strings.ToLower(viper.GetString("translator.backend"))
	flags.TranslatorURL = viper.GetString("translator.url")
	flags.OpenAIModel = viper.GetString("openai.model")
	flags.GeminiModel = viper.GetString("gemini.model")
	flags.DeckName = viper.GetString("anki.deck_name")
	flags.LogLevel = viper.GetString("log.level")
	flags.LogFormat = viper.GetString("log.format")
}

// ValidateTranslator checks the translator backend name
func ValidateTranslator(backend string) error {
	switch backend {
	case TranslatorAPI, TranslatorOpenAI, TranslatorGemini:
		return nil
	default:
		return fmt.Errorf("unknown translator backend: %s (use api, openai or gemini)", backend)
	}
}

// LoadDotEnv loads KEY=value pairs from .env files into the environment.
// Variables that are already set win. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", file, err)
		}
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	LoadDotEnv()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".copywords" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".copywords")
	}

	// Environment variables, COPYWORDS_TRANSLATOR_URL sets translator.url
	viper.SetEnvPrefix("COPYWORDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.key")
}
