package conversation

import (
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/weatherbot/internal/weatherbot"
)

// handleCommand processes slash commands locally; they never reach the model.
// Returns true to continue the loop, false to exit
func (l *Loop) handleCommand(command string, out io.Writer) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(out, "\nAvailable commands:")
		fmt.Fprintln(out, "  /help, /h     - Show this help message")
		fmt.Fprintln(out, "  /history      - Show the conversation so far")
		fmt.Fprintln(out, "  /reset        - Forget the conversation so far")
		fmt.Fprintln(out, "  /exit, /quit  - Leave the chat")
		fmt.Fprintf(out, "  %-13s - Leave the chat\n", strings.Join(l.exits, ", "))
		fmt.Fprintln(out, "  Ctrl+D        - Leave the chat")
		fmt.Fprintln(out, "")
		return true

	case "/history":
		if l.sess.MessageCount() == 0 {
			fmt.Fprintln(out, "No messages yet.")
			return true
		}
		fmt.Fprintln(out, "")
		for i, msg := range l.sess.Messages {
			fmt.Fprintf(out, "  %2d. %-9s %s\n", i+1, msg.Role, describe(msg))
		}
		fmt.Fprintln(out, "")
		return true

	case "/reset":
		l.sess.Reset()
		fmt.Fprintln(out, "Conversation history cleared.")
		return true

	case "/exit", "/quit", "/q":
		return false

	default:
		fmt.Fprintf(out, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

func describe(msg weatherbot.Message) string {
	if msg.Content == "" && len(msg.ToolCalls) > 0 {
		names := make([]string, len(msg.ToolCalls))
		for i, call := range msg.ToolCalls {
			names[i] = call.Name + call.Arguments
		}
		return "(requested " + strings.Join(names, ", ") + ")"
	}
	return msg.Content
}
