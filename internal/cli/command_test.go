package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "copywords [word]" {
		t.Errorf("Expected Use to be 'copywords [word]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Danish and Spanish") {
		t.Errorf("Expected Short description to mention Danish and Spanish, got %s", cmd.Short)
	}

	// Test that flags are set up
	flagTests := []struct {
		name       string
		persistent bool
	}{
		{"config", true},
		{"log-level", true},
		{"log-format", true},
		{"output", false},
		{"lang", false},
		{"url", false},
		{"batch", false},
		{"select", false},
		{"skip-media", false},
		{"json", false},
		{"anki", false},
		{"anki-csv", false},
		{"deck-name", false},
		{"list-models", false},
		{"archive", false},
		{"translator", false},
		{"translator-url", false},
		{"openai-model", false},
		{"gemini-model", false},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	outputFlag := cmd.Flags().Lookup("output")
	if outputFlag == nil {
		t.Fatal("output flag not found")
	}

	home, _ := os.UserHomeDir()
	expectedDefault := filepath.Join(home, ".local", "state", "copywords", "cards")
	if outputFlag.DefValue != expectedDefault {
		t.Errorf("Expected default output dir to be %s, got %s", expectedDefault, outputFlag.DefValue)
	}

	langFlag := cmd.Flags().Lookup("lang")
	if langFlag == nil {
		t.Fatal("lang flag not found")
	}
	if langFlag.DefValue != "danish" {
		t.Errorf("Expected default language to be danish, got %s", langFlag.DefValue)
	}
	if langFlag.Shorthand != "l" {
		t.Errorf("Expected shorthand l for lang, got %s", langFlag.Shorthand)
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		check     func(t *testing.T)
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `lookup:
  language: spanish
translator:
  url: http://localhost:8080/translate
output:
  directory: /test/output`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			check: func(t *testing.T) {
				if got := viper.GetString("lookup.language"); got != "spanish" {
					t.Errorf("Expected lookup.language spanish, got %s", got)
				}
				if got := viper.GetString("output.directory"); got != "/test/output" {
					t.Errorf("Expected output.directory /test/output, got %s", got)
				}
			},
		},
		{
			name:      "without config file",
			setupFunc: func(t *testing.T) string { return "" },
			check:     func(t *testing.T) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			InitConfig(tt.setupFunc(t))
			tt.check(t)

			// Test environment variable prefix and nested keys
			t.Setenv("COPYWORDS_TEST_VAR", "test-value")
			t.Setenv("COPYWORDS_ANKI_DECK_NAME", "Env Deck")

			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}
			if viper.GetString("anki.deck_name") != "Env Deck" {
				t.Errorf("Expected anki.deck_name from environment, got %s", viper.GetString("anki.deck_name"))
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "COPYWORDS_DOTENV_TEST=from-file\nCOPYWORDS_DOTENV_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	t.Setenv("COPYWORDS_DOTENV_SET", "from-env")
	os.Unsetenv("COPYWORDS_DOTENV_TEST")
	defer os.Unsetenv("COPYWORDS_DOTENV_TEST")

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	if got := os.Getenv("COPYWORDS_DOTENV_TEST"); got != "from-file" {
		t.Errorf("Expected from-file, got %q", got)
	}
	if got := os.Getenv("COPYWORDS_DOTENV_SET"); got != "from-env" {
		t.Errorf("Expected existing variable to win, got %q", got)
	}
}

func TestGetOpenAIKey(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{"from environment", "env-test-key", "config-test-key", "env-test-key"},
		{"from config when no env", "", "config-test-key", "config-test-key"},
		{"empty when neither set", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("OPENAI_API_KEY", tt.envKey)
			t.Setenv("GEMINI_API_KEY", tt.envKey)

			if tt.configKey != "" {
				viper.Set("openai.key", tt.configKey)
				viper.Set("gemini.key", tt.configKey)
			}

			if got := GetOpenAIKey(); got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
			if got := GetGeminiKey(); got != tt.expected {
				t.Errorf("GetGeminiKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestApplyConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Config file values lose against flags set on the command line
	viper.Set("anki.deck_name", "Config Deck")
	viper.SetDefault("translator.url", "http://config/translate")
	cmd.Flags().Set("lang", "es")
	cmd.Flags().Set("translator", "OpenAI")

	ApplyConfig(flags)

	if flags.Language != "es" {
		t.Errorf("Expected language es, got %s", flags.Language)
	}
	if flags.Translator != "openai" {
		t.Errorf("Expected translator openai, got %s", flags.Translator)
	}
	if flags.DeckName != "Config Deck" {
		t.Errorf("Expected deck name from config, got %s", flags.DeckName)
	}
	if flags.TranslatorURL != "http://config/translate" {
		t.Errorf("Expected translator URL from config, got %s", flags.TranslatorURL)
	}
	if flags.OutputDir != DefaultOutputDir() {
		t.Errorf("Expected default output dir, got %s", flags.OutputDir)
	}
}

func TestValidateTranslator(t *testing.T) {
	for _, backend := range []string{"api", "openai", "gemini"} {
		if err := ValidateTranslator(backend); err != nil {
			t.Errorf("ValidateTranslator(%s) returned error: %v", backend, err)
		}
	}
	if err := ValidateTranslator("deepl"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
