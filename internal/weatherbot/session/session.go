package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/weatherbot/internal/weatherbot"
)

// Session represents a conversation: the append-only history of one run of the assistant
type Session struct {
	ID           string               `json:"id"`            // UUID v4 (e.g., "550e8400-e29b-41d4-a716-446655440000")
	Name         string               `json:"name"`          // Optional session name (empty by default)
	PromptName   string               `json:"prompt_name"`   // Prompt template name (reference info, can be empty)
	SystemPrompt string               `json:"system_prompt"` // System prompt snapshot, sent ahead of Messages
	Provider     string               `json:"provider"`      // Provider name ("openai")
	Model        string               `json:"model"`         // Model name (without provider prefix)
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Messages     []weatherbot.Message `json:"messages"`
}

// NewSession creates a new session with the given provider and model
func NewSession(provider, model string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Provider:  provider,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []weatherbot.Message{},
	}
}

// AddMessage appends a new message to the session
func (s *Session) AddMessage(role, content string) {
	s.Append(weatherbot.Message{Role: role, Content: content})
}

// Append appends msg, stamping it with the current time if it has none
func (s *Session) Append(msg weatherbot.Message) {
	now := time.Now()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = now
}

// History returns the messages to send to the model: the system prompt followed by every message
func (s *Session) History() []weatherbot.Message {
	history := make([]weatherbot.Message, 0, len(s.Messages)+1)
	if s.SystemPrompt != "" {
		history = append(history, weatherbot.Message{Role: weatherbot.RoleSystem, Content: s.SystemPrompt})
	}
	return append(history, s.Messages...)
}

// Reset drops all messages but keeps the system prompt
func (s *Session) Reset() {
	s.Messages = []weatherbot.Message{}
	s.UpdatedAt = time.Now()
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// GetDisplayName returns the display name for the session
// If name is set, returns the name. Otherwise, returns the short ID.
func (s *Session) GetDisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.GetShortID()
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// Turns returns the number of user messages in the session
func (s *Session) Turns() int {
	n := 0
	for _, msg := range s.Messages {
		if msg.Role == weatherbot.RoleUser {
			n++
		}
	}
	return n
}
