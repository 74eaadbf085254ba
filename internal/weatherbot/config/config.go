package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/longkey1/weatherbot/internal/openai"
	"github.com/longkey1/weatherbot/internal/weather"
	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/spf13/viper"
)

// Lookup modes decide who picks the city for a weather lookup.
const (
	LookupHeuristic = "heuristic" // text matching on the user's input
	LookupTool      = "tool"      // the model requests the lookup through function calling
)

// Config holds the configuration for the weather assistant
type Config struct {
	Model                   string   `toml:"model" mapstructure:"model"` // Format: "provider:model" (e.g., "openai:gpt-4o-mini")
	OpenAIBaseURL           string   `toml:"openai_base_url" mapstructure:"openai_base_url"`
	OpenAIToken             string   `toml:"openai_token" mapstructure:"openai_token"`
	WeatherBaseURL          string   `toml:"weather_base_url" mapstructure:"weather_base_url"`
	WeatherToken            string   `toml:"weather_token" mapstructure:"weather_token"`
	Units                   string   `toml:"units" mapstructure:"units"`             // "metric" or "imperial"
	LookupMode              string   `toml:"lookup_mode" mapstructure:"lookup_mode"` // "heuristic" or "tool"
	ExitKeywords            []string `toml:"exit_keywords" mapstructure:"exit_keywords"`
	Prompt                  string   `toml:"prompt" mapstructure:"prompt"` // Prompt template name (empty = built-in)
	PromptDirs              []string `toml:"prompt_dirs" mapstructure:"prompt_dirs"`
	SaveTranscripts         bool     `toml:"save_transcripts" mapstructure:"save_transcripts"`
	TranscriptRetentionDays int      `toml:"transcript_retention_days" mapstructure:"transcript_retention_days"` // Number of days to retain transcripts (default: 30)
}

// MissingCredentialError reports a required API key that resolved to an empty value
type MissingCredentialError struct {
	Name    string // Environment variable holding the credential (e.g., "OPENAI_API_KEY")
	Setting string // Config key that can hold it instead (e.g., "openai_token")
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential %s: set the %s environment variable or %s in the config file", e.Name, e.Name, e.Setting)
}

// GetModel returns the model string
func (c *Config) GetModel() string {
	return c.Model
}

// GetProvider extracts provider name from the model string
func (c *Config) GetProvider() (string, error) {
	provider, _, err := weatherbot.ParseModelString(c.Model)
	return provider, err
}

// GetModelName extracts model name from the model string
func (c *Config) GetModelName() (string, error) {
	_, model, err := weatherbot.ParseModelString(c.Model)
	return model, err
}

// GetUnits returns the parsed units setting
func (c *Config) GetUnits() (weather.Units, error) {
	return weather.ParseUnits(c.Units)
}

// Validate checks the settings the assistant cannot start without.
// Every missing credential is reported; each is a *MissingCredentialError.
func (c *Config) Validate() error {
	var errs []error

	provider, err := c.GetProvider()
	if err != nil {
		errs = append(errs, err)
	} else if provider != openai.ProviderName {
		errs = append(errs, fmt.Errorf("unsupported provider: %s", provider))
	}

	if strings.TrimSpace(c.OpenAIToken) == "" {
		errs = append(errs, &MissingCredentialError{Name: "OPENAI_API_KEY", Setting: "openai_token"})
	}
	if strings.TrimSpace(c.WeatherToken) == "" {
		errs = append(errs, &MissingCredentialError{Name: "OPENWEATHERMAP_API_KEY", Setting: "weather_token"})
	}

	if _, err := c.GetUnits(); err != nil {
		errs = append(errs, err)
	}

	switch c.LookupMode {
	case LookupHeuristic, LookupTool:
	default:
		errs = append(errs, fmt.Errorf("unsupported lookup mode: %s (expected %s or %s)", c.LookupMode, LookupHeuristic, LookupTool))
	}

	return errors.Join(errs...)
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(promptDir string) *Config {
	return &Config{
		Model:                   weatherbot.FormatModelString(openai.ProviderName, openai.DefaultModel),
		OpenAIBaseURL:           openai.DefaultBaseURL,
		OpenAIToken:             "$OPENAI_API_KEY", // Default to env var
		WeatherBaseURL:          weather.DefaultBaseURL,
		WeatherToken:            "$OPENWEATHERMAP_API_KEY",
		Units:                   string(weather.Metric),
		LookupMode:              LookupHeuristic,
		ExitKeywords:            []string{"quit", "exit"},
		PromptDirs:              []string{promptDir},
		SaveTranscripts:         false,
		TranscriptRetentionDays: 30,
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	config.OpenAIToken = expandEnvVar(config.OpenAIToken)
	config.WeatherToken = expandEnvVar(config.WeatherToken)
	config.OpenAIBaseURL = expandEnvVar(config.OpenAIBaseURL)
	config.WeatherBaseURL = expandEnvVar(config.WeatherBaseURL)

	if config.LookupMode == "" {
		config.LookupMode = LookupHeuristic
	}
	config.LookupMode = strings.ToLower(strings.TrimSpace(config.LookupMode))

	// Convert prompt directories to absolute paths
	for i, promptDir := range config.PromptDirs {
		absPath, err := ResolvePath(promptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt directory path '%s': %v", promptDir, err)
		}
		config.PromptDirs[i] = absPath
	}

	return config, nil
}
