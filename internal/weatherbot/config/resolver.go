package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/longkey1/weatherbot/internal/openai"
	"github.com/longkey1/weatherbot/internal/weather"
	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference in the given value
// Supports both $VAR and ${VAR} syntax
// If the environment variable is not set, returns empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// GetBaseURL returns the base URL for the specified provider
// Environment variables are already expanded during LoadConfig()
func (c *Config) GetBaseURL(provider string) (string, error) {
	var baseURLValue string
	var key string
	switch provider {
	case openai.ProviderName:
		baseURLValue, key = c.OpenAIBaseURL, "openai_base_url"
	case weather.ProviderName:
		baseURLValue, key = c.WeatherBaseURL, "weather_base_url"
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if baseURLValue == "" {
		return "", fmt.Errorf("%s base URL is not configured. Set it in config file (%s) or environment variable (WEATHERBOT_%s)", provider, key, strings.ToUpper(key))
	}

	return baseURLValue, nil
}

// GetToken returns the token for the specified provider
// Environment variables are already expanded during LoadConfig()
func (c *Config) GetToken(provider string) (string, error) {
	var tokenValue string
	switch provider {
	case openai.ProviderName:
		tokenValue = c.OpenAIToken
	case weather.ProviderName:
		tokenValue = c.WeatherToken
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if tokenValue == "" {
		if provider == openai.ProviderName {
			return "", &MissingCredentialError{Name: "OPENAI_API_KEY", Setting: "openai_token"}
		}
		return "", &MissingCredentialError{Name: "OPENWEATHERMAP_API_KEY", Setting: "weather_token"}
	}

	return tokenValue, nil
}

// ResolvePath converts a relative path to absolute path if needed
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	// Get config file directory as base directory
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		// If no config file is used, fall back to current working directory
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %v", err)
		}
		return filepath.Join(cwd, path), nil
	}

	configDir := filepath.Dir(configFile)

	if !filepath.IsAbs(configDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %v", err)
		}
		configDir = filepath.Join(cwd, configDir)
	}

	return filepath.Join(configDir, path), nil
}
