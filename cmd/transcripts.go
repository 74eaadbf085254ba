package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	"github.com/longkey1/weatherbot/internal/weatherbot/session"
	"github.com/spf13/cobra"
)

// transcriptsCmd represents the transcripts command
var transcriptsCmd = &cobra.Command{
	Use:     "transcripts",
	Aliases: []string{"transcript"},
	Short:   "Manage saved conversation transcripts",
	Long: `Manage saved conversation transcripts including listing, viewing, renaming and deleting them.

Transcripts are only written when save_transcripts is enabled in the config file
(or WEATHERBOT_SAVE_TRANSCRIPTS=true, or the --save flag).`,
}

// transcriptsListCmd represents the transcripts list command
var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all transcripts",
	Long:  `List all saved transcripts sorted by most recently updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}

		transcripts, err := store.List()
		if err != nil {
			return fmt.Errorf("listing transcripts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(transcripts) == 0 {
			fmt.Fprintln(out, "No transcripts found.")
			fmt.Fprintln(out, "\nSave the next conversation with:")
			fmt.Fprintln(out, "  weatherbot --save")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMODEL\tCREATED\tTURNS\tNAME")
		fmt.Fprintln(w, "--\t-----\t-------\t-----\t----")

		for _, sess := range transcripts {
			name := sess.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				sess.GetShortID(),
				sess.Model,
				sess.CreatedAt.Format("2006-01-02 15:04"),
				sess.Turns(),
				name,
			)
		}
		w.Flush()

		fmt.Fprintln(out, "\nUse 'weatherbot transcripts show <id>' to view a conversation.")
		return nil
	},
}

// transcriptsShowCmd represents the transcripts show command
var transcriptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a transcript",
	Long: `Show a saved conversation including lookup context.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}

		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		printTranscript(cmd.OutOrStdout(), sess)
		return nil
	},
}

// transcriptsRenameCmd represents the transcripts rename command
var transcriptsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a transcript",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}

		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		sess.Name = args[1]
		if err := store.Save(sess); err != nil {
			return fmt.Errorf("saving transcript: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Transcript %s renamed to %q.\n", sess.GetShortID(), sess.Name)
		return nil
	},
}

// transcriptsDeleteCmd represents the transcripts delete command
var transcriptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transcript",
	Long: `Delete a saved transcript permanently.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent transcript.

Warning: This action cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}

		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirm(cmd, fmt.Sprintf("Are you sure you want to delete transcript %s?", sess.GetShortID())) {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
			return nil
		}

		if err := store.Delete(sess.ID); err != nil {
			return fmt.Errorf("deleting transcript: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Transcript %s deleted successfully.\n", sess.GetShortID())
		return nil
	},
}

// transcriptsClearCmd represents the transcripts clear command
var transcriptsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete old transcripts",
	Long: `Delete old transcripts permanently.

By default, deletes transcripts created more than transcript_retention_days (30) days ago.
Use --before to specify a different date, or --all to delete all transcripts.

Warning: This action cannot be undone.

Examples:
  weatherbot transcripts clear                      # Delete transcripts older than the retention period
  weatherbot transcripts clear --before 2025-01-01  # Delete transcripts created before 2025-01-01
  weatherbot transcripts clear --before 2025-06     # Delete transcripts created before 2025-06-01
  weatherbot transcripts clear --all                # Delete all transcripts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		beforeDateStr, _ := cmd.Flags().GetString("before")
		deleteAll, _ := cmd.Flags().GetBool("all")
		force, _ := cmd.Flags().GetBool("force")

		store, err := transcriptStore()
		if err != nil {
			return err
		}

		var beforeDate time.Time
		var question string
		switch {
		case deleteAll:
			// Anything created up to now
			beforeDate = time.Now().Add(time.Second)
			question = "Are you sure you want to delete all transcripts?"
		case beforeDateStr != "":
			beforeDate, err = parseDate(beforeDateStr)
			if err != nil {
				return fmt.Errorf("parsing date: %w", err)
			}
			question = fmt.Sprintf("Are you sure you want to delete transcripts created before %s?", beforeDate.Format("2006-01-02"))
		default:
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			beforeDate = time.Now().AddDate(0, 0, -cfg.TranscriptRetentionDays)
			question = fmt.Sprintf("Are you sure you want to delete transcripts older than %d days (created before %s)?",
				cfg.TranscriptRetentionDays, beforeDate.Format("2006-01-02"))
		}

		transcripts, err := store.List()
		if err != nil {
			return fmt.Errorf("listing transcripts: %w", err)
		}
		matching := 0
		for _, sess := range transcripts {
			if sess.CreatedAt.Before(beforeDate) {
				matching++
			}
		}
		if matching == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No transcripts to delete.")
			return nil
		}

		if !force && !confirm(cmd, fmt.Sprintf("%s (%d transcripts)", question, matching)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
			return nil
		}

		deleted, err := store.ClearBefore(beforeDate)
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted %d transcripts.\n", deleted)
		if err != nil {
			return fmt.Errorf("some transcripts could not be deleted: %w", err)
		}
		return nil
	},
}

// transcriptStore opens the transcript directory next to the config file
func transcriptStore() (*session.Store, error) {
	dir, err := session.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("locating transcript directory: %w", err)
	}
	return session.NewStore(dir), nil
}

func printTranscript(out io.Writer, sess *session.Session) {
	fmt.Fprintf(out, "Transcript: %s\n", sess.ID)
	if sess.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", sess.Name)
	}
	fmt.Fprintf(out, "Model: %s\n", weatherbot.FormatModelString(sess.Provider, sess.Model))
	fmt.Fprintf(out, "Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated: %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))
	if sess.PromptName != "" {
		fmt.Fprintf(out, "Prompt: %s\n", sess.PromptName)
	}
	if sess.SystemPrompt != "" {
		fmt.Fprintf(out, "System Prompt: %s\n", sess.SystemPrompt)
	}
	fmt.Fprintf(out, "Messages: %d\n\n", sess.MessageCount())

	if len(sess.Messages) == 0 {
		fmt.Fprintln(out, "No messages in this transcript.")
		return
	}

	for i, msg := range sess.Messages {
		var label string
		switch msg.Role {
		case weatherbot.RoleUser:
			label = "You"
		case weatherbot.RoleAssistant:
			label = "Chat Bot"
		case weatherbot.RoleTool:
			label = "Tool"
		default:
			label = "Context"
		}

		content := msg.Content
		if content == "" && len(msg.ToolCalls) > 0 {
			calls := make([]string, len(msg.ToolCalls))
			for j, call := range msg.ToolCalls {
				calls[j] = call.Name + call.Arguments
			}
			content = "requested " + strings.Join(calls, ", ")
		}

		fmt.Fprintf(out, "[%d] %s (%s):\n%s\n\n", i+1, label, msg.Timestamp.Format("15:04:05"), content)
	}
}

// confirm asks a yes/no question on the command's streams; anything but y/yes is no
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// parseDate parses a date string in various formats and returns a time.Time
// Supported formats: YYYY-MM-DD, YYYY-MM, YYYY
func parseDate(dateStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.ParseInLocation(layout, dateStr, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, YYYY-MM, or YYYY)", dateStr)
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsListCmd)
	transcriptsCmd.AddCommand(transcriptsShowCmd)
	transcriptsCmd.AddCommand(transcriptsRenameCmd)
	transcriptsCmd.AddCommand(transcriptsDeleteCmd)
	transcriptsCmd.AddCommand(transcriptsClearCmd)

	transcriptsDeleteCmd.Flags().BoolP("force", "f", false, "Delete without asking for confirmation")
	transcriptsClearCmd.Flags().String("before", "", "Delete transcripts created before this date (YYYY-MM-DD, YYYY-MM, or YYYY)")
	transcriptsClearCmd.Flags().Bool("all", false, "Delete all transcripts")
	transcriptsClearCmd.Flags().BoolP("force", "f", false, "Delete without asking for confirmation")
	transcriptsClearCmd.MarkFlagsMutuallyExclusive("before", "all")
}
