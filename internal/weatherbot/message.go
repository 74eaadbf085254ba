package weatherbot

import "time"

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a single entry in a conversation
type Message struct {
	Role       string     `json:"role"`                   // "system", "user", "assistant" or "tool"
	Content    string     `json:"content"`                // Message content
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // Set on assistant messages that request tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // Set on tool messages
	Timestamp  time.Time  `json:"timestamp"`
}

// ToolCall is a model request to invoke a named tool with JSON arguments.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
