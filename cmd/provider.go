package cmd

import (
	"fmt"
	"log/slog"

	"github.com/longkey1/weatherbot/internal/openai"
	"github.com/longkey1/weatherbot/internal/weather"
	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
)

// newProvider creates the language-model provider selected by the model setting
func newProvider(cfg *config.Config, log *slog.Logger) (weatherbot.Provider, error) {
	provider, model, err := weatherbot.ParseModelString(cfg.Model)
	if err != nil {
		return nil, err
	}

	switch provider {
	case openai.ProviderName:
		baseURL, err := cfg.GetBaseURL(provider)
		if err != nil {
			return nil, err
		}
		token, err := cfg.GetToken(provider)
		if err != nil {
			return nil, err
		}
		return openai.NewProvider(openai.Options{
			Token:   token,
			BaseURL: baseURL,
			Model:   model,
			Logger:  log,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// newFetcher creates the OpenWeatherMap client
func newFetcher(cfg *config.Config, log *slog.Logger) (*weather.Client, error) {
	baseURL, err := cfg.GetBaseURL(weather.ProviderName)
	if err != nil {
		return nil, err
	}
	token, err := cfg.GetToken(weather.ProviderName)
	if err != nil {
		return nil, err
	}
	return weather.NewClient(weather.Options{
		BaseURL: baseURL,
		Token:   token,
		Logger:  log,
	}), nil
}
