/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	promptpkg "github.com/longkey1/weatherbot/internal/weatherbot/prompt"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/weatherbot/config.toml by default.
You can specify a different location using the --config option.

A prompts directory is created next to it, holding a sample prompt template (default.toml)
with the built-in system prompt and greeting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %v", err)
		}

		configFile := filepath.Join(home, ".config", "weatherbot", "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %v", err)
		}

		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		promptsDir := filepath.Join(configDir, "prompts")
		cfg := config.NewDefaultConfig(promptsDir)
		if err := writeTOML(configFile, cfg); err != nil {
			return err
		}

		if err := os.MkdirAll(promptsDir, 0755); err != nil {
			return fmt.Errorf("failed to create prompts directory: %v", err)
		}
		samplePrompt := filepath.Join(promptsDir, "default.toml")
		if _, err := os.Stat(samplePrompt); os.IsNotExist(err) {
			if err := writeTOML(samplePrompt, promptpkg.Default()); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file created at: %s\n", configFile)
		fmt.Fprintf(out, "Prompts directory created at: %s\n", promptsDir)
		fmt.Fprintln(out, "\nSet OPENAI_API_KEY and OPENWEATHERMAP_API_KEY (or a .env file) and run 'weatherbot'.")
		return nil
	},
}

func writeTOML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %v", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
