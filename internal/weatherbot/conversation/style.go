package conversation

import "github.com/charmbracelet/lipgloss"

var (
	// UserPrompt is shown before each line the user types.
	UserPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("You:") + " "
	// BotLabel prefixes every assistant reply.
	BotLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Render("Chat Bot:")
)
