// Package weatherbot provides the core abstractions shared by the weather assistant.
// It defines the message types that make up a conversation and the Provider
// interface that language-model backends (openai) implement.
package weatherbot

import (
	"context"
	"fmt"
	"strings"
)

// ModelInfo represents information about an available model from a provider.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gpt-4o-mini")
	Description string // Human-readable description of the model
	IsDefault   bool   // Whether this is the default model for the provider
}

// Tool describes a function the model may ask the assistant to call.
// Parameters is a JSON schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Reply is a single completion returned by a language model.
type Reply struct {
	Content   string
	ToolCalls []ToolCall
}

// Provider defines the interface for language-model providers.
//
// Example usage:
//
//	provider := openai.NewProvider(openai.Options{Token: token})
//	reply, err := provider.Complete(ctx, messages, nil)
type Provider interface {
	// Complete sends the conversation and returns the model's next message.
	// tools may be nil when no function calling is offered.
	Complete(ctx context.Context, messages []Message, tools []Tool) (*Reply, error)

	// ListModels returns a list of available models for the provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ParseModelString parses a model string in "provider:model" format.
// Returns (provider, model, error).
//
// Example:
//
//	provider, model, err := ParseModelString("openai:gpt-4o-mini")
//	// provider = "openai", model = "gpt-4o-mini"
func ParseModelString(modelStr string) (string, string, error) {
	parts := strings.SplitN(modelStr, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid model format: %s (expected format: provider:model, e.g., openai:gpt-4o-mini)", modelStr)
	}

	provider := strings.TrimSpace(parts[0])
	model := strings.TrimSpace(parts[1])

	if provider == "" || model == "" {
		return "", "", fmt.Errorf("provider and model cannot be empty")
	}

	return provider, model, nil
}

// FormatModelString formats provider and model into "provider:model" format.
func FormatModelString(provider, model string) string {
	return fmt.Sprintf("%s:%s", provider, model)
}
