/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/weatherbot/internal/openai"
	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available chat models",
	Long: `List the chat models available to your OpenAI key.
Fetches the latest model information directly from the provider's API.

Example:
  weatherbot models
  weatherbot --model openai:gpt-4.1 # chat with one of them`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// Listing works regardless of the configured model
		cfg.Model = weatherbot.FormatModelString(openai.ProviderName, openai.DefaultModel)
		provider, err := newProvider(cfg, newLogger())
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}

		models, err := provider.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if len(models) == 0 {
			return fmt.Errorf("no models returned from API")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Available models for %s:\n\n", openai.ProviderName)

		// Calculate column widths
		maxModelWidth := 15
		for _, model := range models {
			if n := len(weatherbot.FormatModelString(openai.ProviderName, model.ID)); n > maxModelWidth {
				maxModelWidth = n
			}
		}

		fmt.Fprintf(out, "%-*s  %-10s  %s\n", maxModelWidth, "MODEL", "DEFAULT", "DESCRIPTION")
		fmt.Fprintf(out, "%s  %s  %s\n",
			strings.Repeat("-", maxModelWidth),
			strings.Repeat("-", 10),
			strings.Repeat("-", 40))

		for _, model := range models {
			defaultMark := ""
			if model.IsDefault {
				defaultMark = "Yes"
			}
			fmt.Fprintf(out, "%-*s  %-10s  %s\n",
				maxModelWidth,
				weatherbot.FormatModelString(openai.ProviderName, model.ID),
				defaultMark,
				model.Description)
		}

		fmt.Fprintf(out, "\nUse a model with: weatherbot --model <model>\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
