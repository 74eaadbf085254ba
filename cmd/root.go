/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/longkey1/weatherbot/internal/logger"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	"github.com/longkey1/weatherbot/internal/weatherbot/conversation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weatherbot",
	Short: "Chat with an assistant about the current weather",
	Long: `weatherbot is a conversational weather assistant for the terminal.
Ask about the weather anywhere ("What's the weather like in Berlin?") or just type a city name.
Replies come from an OpenAI chat model, grounded on current conditions from OpenWeatherMap.

Both OPENAI_API_KEY and OPENWEATHERMAP_API_KEY must be set (in the environment, a .env file
in the current directory, or the config file). Type 'quit' or 'exit' to leave.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/weatherbot/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	addChatFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file in the working directory supplies API keys; real environment variables win
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading .env file: %v\n", err)
	}

	// Set environment variable prefix and automatic env
	viper.SetEnvPrefix("WEATHERBOT")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "weatherbot")

	// Note: Later directories in the array take precedence over earlier ones
	defaultPromptDirs := []string{
		"/usr/share/weatherbot/prompts",
		filepath.Join(userConfigDir, "prompts"),
	}
	defaultConfig := config.NewDefaultConfig(filepath.Join(userConfigDir, "prompts"))

	viper.SetDefault("model", defaultConfig.Model)
	viper.SetDefault("openai_base_url", defaultConfig.OpenAIBaseURL)
	viper.SetDefault("openai_token", defaultConfig.OpenAIToken)
	viper.SetDefault("weather_base_url", defaultConfig.WeatherBaseURL)
	viper.SetDefault("weather_token", defaultConfig.WeatherToken)
	viper.SetDefault("units", defaultConfig.Units)
	viper.SetDefault("lookup_mode", defaultConfig.LookupMode)
	viper.SetDefault("exit_keywords", defaultConfig.ExitKeywords)
	viper.SetDefault("prompt", defaultConfig.Prompt)
	viper.SetDefault("prompt_dirs", defaultPromptDirs)
	viper.SetDefault("save_transcripts", defaultConfig.SaveTranscripts)
	viper.SetDefault("transcript_retention_days", defaultConfig.TranscriptRetentionDays)

	// Bind environment variables
	viper.BindEnv("openai_base_url", "WEATHERBOT_OPENAI_BASE_URL")
	viper.BindEnv("openai_token", "WEATHERBOT_OPENAI_TOKEN")
	viper.BindEnv("weather_base_url", "WEATHERBOT_WEATHER_BASE_URL")
	viper.BindEnv("weather_token", "WEATHERBOT_WEATHER_TOKEN")
	viper.BindEnv("lookup_mode", "WEATHERBOT_LOOKUP_MODE")
	viper.BindEnv("save_transcripts", "WEATHERBOT_SAVE_TRANSCRIPTS")
	viper.BindEnv("transcript_retention_days", "WEATHERBOT_TRANSCRIPT_RETENTION_DAYS")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("/etc/weatherbot")
		viper.AddConfigPath(userConfigDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  WEATHERBOT_MODEL:", viper.GetString("model"))
		fmt.Fprintln(os.Stderr, "  WEATHERBOT_OPENAI_BASE_URL:", viper.GetString("openai_base_url"))
		fmt.Fprintln(os.Stderr, "  WEATHERBOT_WEATHER_BASE_URL:", viper.GetString("weather_base_url"))
		fmt.Fprintln(os.Stderr, "  WEATHERBOT_LOOKUP_MODE:", viper.GetString("lookup_mode"))
		fmt.Fprintln(os.Stderr, "  WEATHERBOT_PROMPT_DIRS:", viper.GetStringSlice("prompt_dirs"))
	}
}

// newLogger returns the stderr logger; --verbose turns on debug records
func newLogger() *slog.Logger {
	return logger.New(
		logger.WithDebug(verbose),
		logger.WithPretty(conversation.IsTerminal(os.Stderr)),
		logger.WithWriter(os.Stderr),
	)
}
