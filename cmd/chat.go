/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	"github.com/longkey1/weatherbot/internal/weatherbot/conversation"
	promptpkg "github.com/longkey1/weatherbot/internal/weatherbot/prompt"
	"github.com/longkey1/weatherbot/internal/weatherbot/session"
	"github.com/spf13/cobra"
)

var (
	model           string
	prompt          string
	lookupMode      string
	units           string
	saveTranscripts bool
)

func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (format: provider:model, e.g., openai:gpt-4o-mini)")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Name of the prompt template (without .toml extension)")
	cmd.Flags().StringVar(&lookupMode, "mode", "", "How weather lookups are triggered: heuristic or tool")
	cmd.Flags().StringVarP(&units, "units", "u", "", "Temperature units: metric or imperial")
	cmd.Flags().BoolVar(&saveTranscripts, "save", false, "Save the conversation transcript")
}

// chatConfig loads the configuration and applies flags with priority: flag > env > prompt template > config file
func chatConfig(cmd *cobra.Command) (*config.Config, *promptpkg.Prompt, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("prompt") {
		cfg.Prompt = prompt
	}
	p, err := promptpkg.Load(cfg.Prompt, cfg.PromptDirs)
	if err != nil {
		return nil, nil, fmt.Errorf("loading prompt: %w", err)
	}

	envModel := os.Getenv("WEATHERBOT_MODEL")
	if cmd.Flags().Changed("model") {
		if _, _, err := weatherbot.ParseModelString(model); err != nil {
			return nil, nil, fmt.Errorf("invalid model from flag: %w", err)
		}
		cfg.Model = model
	} else if envModel == "" && p.Model != nil {
		cfg.Model = *p.Model
	}

	if cmd.Flags().Changed("mode") {
		cfg.LookupMode = lookupMode
	}
	if cmd.Flags().Changed("units") {
		cfg.Units = units
	}
	if cmd.Flags().Changed("save") {
		cfg.SaveTranscripts = saveTranscripts
	}

	return cfg, p, nil
}

// runChat starts the interactive conversation on stdin/stdout
func runChat(cmd *cobra.Command) error {
	log := newLogger()

	cfg, p, err := chatConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	provider, err := newProvider(cfg, log)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	fetcher, err := newFetcher(cfg, log)
	if err != nil {
		return fmt.Errorf("creating weather client: %w", err)
	}

	providerName, _ := cfg.GetProvider()
	modelName, _ := cfg.GetModelName()
	unitSetting, _ := cfg.GetUnits()
	mode, _ := conversation.ParseMode(cfg.LookupMode)

	sess := session.NewSession(providerName, modelName)
	sess.PromptName = cfg.Prompt
	sess.SystemPrompt = p.System

	var onTurn func(*session.Session)
	if cfg.SaveTranscripts {
		store, err := transcriptStore()
		if err != nil {
			return err
		}
		pruneTranscripts(store, cfg.TranscriptRetentionDays)
		onTurn = func(s *session.Session) {
			if err := store.Save(s); err != nil {
				log.Warn("failed to save transcript", "error", err)
			}
		}
		log.Debug("saving transcript", "path", store.Path(sess.ID))
	}

	var spin io.Writer
	if conversation.IsTerminal(os.Stderr) {
		spin = os.Stderr
	}

	loop, err := conversation.New(conversation.Options{
		Model:        provider,
		Fetcher:      fetcher,
		Session:      sess,
		Greeting:     p.Greeting,
		Mode:         mode,
		Units:        unitSetting,
		ExitKeywords: cfg.ExitKeywords,
		OnTurn:       onTurn,
		Spinner:      spin,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in, err := conversation.NewStdinReader(out)
	if err != nil {
		return err
	}
	defer in.Close()

	log.Debug("starting conversation", "model", cfg.Model, "mode", mode, "units", unitSetting, "session", sess.GetShortID())

	err = loop.Run(cmd.Context(), in, out)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out)
		return nil
	}
	return err
}

// pruneTranscripts deletes transcripts older than the retention period; zero keeps everything
func pruneTranscripts(store *session.Store, days int) {
	if days <= 0 {
		return
	}
	deleted, err := store.ClearBefore(time.Now().AddDate(0, 0, -days))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to prune old transcripts: %v\n", err)
	}
	if deleted > 0 && verbose {
		fmt.Fprintf(os.Stderr, "Pruned %d transcript(s) older than %d days\n", deleted, days)
	}
}
