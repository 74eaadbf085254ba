package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, openai_base_url, openai_token, weather_base_url, weather_token, units, lookup_mode, exit_keywords, prompt, promptdirs, save_transcripts, transcript_retention_days"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.
Tokens are masked.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  weatherbot config                 # Show all configuration
  weatherbot config model           # Show only model
  weatherbot config weather_token   # Show only the (masked) OpenWeatherMap token
  weatherbot config lookup_mode     # Show only the lookup mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		out := cmd.OutOrStdout()

		// If a field is specified, show only that field
		if len(args) > 0 {
			value, ok := configField(cfg, args[0])
			if !ok {
				return fmt.Errorf("unknown field: %s\nAvailable fields: %s", args[0], configFields)
			}
			fmt.Fprintln(out, value)
			return nil
		}

		fmt.Fprintf(out, "ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Fprintf(out, "Model: %s\n", cfg.Model)
		fmt.Fprintf(out, "OpenAIBaseURL: %s\n", cfg.OpenAIBaseURL)
		fmt.Fprintf(out, "OpenAIToken: %s\n", maskToken(cfg.OpenAIToken))
		fmt.Fprintf(out, "WeatherBaseURL: %s\n", cfg.WeatherBaseURL)
		fmt.Fprintf(out, "WeatherToken: %s\n", maskToken(cfg.WeatherToken))
		fmt.Fprintf(out, "Units: %s\n", cfg.Units)
		fmt.Fprintf(out, "LookupMode: %s\n", cfg.LookupMode)
		fmt.Fprintf(out, "ExitKeywords: %s\n", strings.Join(cfg.ExitKeywords, ","))
		fmt.Fprintf(out, "Prompt: %s\n", cfg.Prompt)
		// PromptDirs are already absolute paths
		fmt.Fprintf(out, "PromptDirectories: %s\n", strings.Join(cfg.PromptDirs, ","))
		fmt.Fprintf(out, "SaveTranscripts: %v\n", cfg.SaveTranscripts)
		fmt.Fprintf(out, "TranscriptRetentionDays: %d\n", cfg.TranscriptRetentionDays)
		return nil
	},
}

// configField returns the display value of a single field
func configField(cfg *config.Config, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "configfile":
		return viper.ConfigFileUsed(), true
	case "model":
		return cfg.Model, true
	case "openai_base_url", "openaibaseurl":
		return cfg.OpenAIBaseURL, true
	case "openai_token", "openaitoken":
		return maskToken(cfg.OpenAIToken), true
	case "weather_base_url", "weatherbaseurl":
		return cfg.WeatherBaseURL, true
	case "weather_token", "weathertoken":
		return maskToken(cfg.WeatherToken), true
	case "units":
		return cfg.Units, true
	case "lookup_mode", "lookupmode":
		return cfg.LookupMode, true
	case "exit_keywords", "exitkeywords":
		return strings.Join(cfg.ExitKeywords, ","), true
	case "prompt":
		return cfg.Prompt, true
	case "promptdirs", "prompt_dirs":
		return strings.Join(cfg.PromptDirs, ","), true
	case "save_transcripts", "savetranscripts":
		return fmt.Sprint(cfg.SaveTranscripts), true
	case "transcript_retention_days", "transcriptretentiondays":
		return fmt.Sprint(cfg.TranscriptRetentionDays), true
	default:
		return "", false
	}
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
