/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	promptpkg "github.com/longkey1/weatherbot/internal/weatherbot/prompt"
	"github.com/spf13/cobra"
)

var withDir bool

// promptsCmd represents the prompts command
var promptsCmd = &cobra.Command{
	Use:     "prompts",
	Aliases: []string{"prompt"},
	Short:   "List available prompt templates",
	Long: `List all available prompt templates from the configured prompt directories.
Subdirectories are scanned too; a file at ${prompt_dir}/foo/bar.toml is listed as "foo/bar".
When the same name exists in several directories, the later directory wins.

Prompt files are TOML:
system = "You are a helpful weather assistant..."
greeting = "Hello! Ask me about the weather..."
model = "openai:gpt-4o-mini"  # Optional: overrides the configured model

If you want to see which directory each prompt comes from, use the --with-dir option.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		entries, err := promptpkg.List(cfg.PromptDirs)
		if err != nil {
			return fmt.Errorf("listing prompts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No prompt templates found.")
			fmt.Fprintln(out, "Create .toml files in the following directories:")
			for _, promptDir := range cfg.PromptDirs {
				fmt.Fprintf(out, "  - %s\n", promptDir)
			}
			return nil
		}

		fmt.Fprintf(out, "Available prompt templates (%d found):\n\n", len(entries))
		for _, entry := range entries {
			if withDir {
				fmt.Fprintf(out, "  %s (from %s)\n", entry.Name, entry.Dir)
			} else {
				fmt.Fprintf(out, "  %s\n", entry.Name)
			}
		}

		fmt.Fprintf(out, "\nUse a prompt template with: weatherbot --prompt <name>\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each prompt was found in")
}
