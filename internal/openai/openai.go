package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/longkey1/weatherbot/internal/weatherbot"
	openai "github.com/sashabaranov/go-openai"
)

const (
	ProviderName   = "openai"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// Options configures the OpenAI provider
type Options struct {
	Token      string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Provider implements the weatherbot.Provider interface for OpenAI
type Provider struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

// NewProvider creates a new OpenAI provider instance
func NewProvider(opts Options) *Provider {
	cfg := openai.DefaultConfig(opts.Token)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Provider{
		api:    openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Model returns the model name used for completions
func (p *Provider) Model() string { return p.model }

// Complete sends the conversation to the Chat Completions API and returns the first choice
func (p *Provider) Complete(ctx context.Context, messages []weatherbot.Message, tools []weatherbot.Tool) (*weatherbot.Reply, error) {
	req := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: toChatMessages(messages),
	}
	for _, tool := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	p.logger.Debug("sending chat completion", "model", p.model, "messages", len(req.Messages), "tools", len(req.Tools))

	resp, err := p.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no completion choices")
	}

	msg := resp.Choices[0].Message
	reply := &weatherbot.Reply{Content: strings.TrimSpace(msg.Content)}
	for _, call := range msg.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, weatherbot.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	p.logger.Debug("chat completion received",
		"finish_reason", resp.Choices[0].FinishReason,
		"tool_calls", len(reply.ToolCalls),
		"total_tokens", resp.Usage.TotalTokens)

	return reply, nil
}

// ListModels returns the chat-capable models visible to the API key
func (p *Provider) ListModels(ctx context.Context) ([]weatherbot.ModelInfo, error) {
	list, err := p.api.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("openai list models: %w", err)
	}

	var models []weatherbot.ModelInfo
	for _, m := range list.Models {
		if !isChatModel(m.ID) {
			continue
		}
		description := "Owned by " + m.OwnedBy
		if m.OwnedBy == "" {
			description = ""
		}
		models = append(models, weatherbot.ModelInfo{
			ID:          m.ID,
			Description: description,
			IsDefault:   m.ID == DefaultModel,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	return models, nil
}

// isChatModel filters out embedding, audio and image models
func isChatModel(id string) bool {
	for _, prefix := range []string{"gpt-", "o1", "o3", "o4", "chatgpt-"} {
		if strings.HasPrefix(id, prefix) {
			return !strings.Contains(id, "audio") &&
				!strings.Contains(id, "realtime") &&
				!strings.Contains(id, "transcribe") &&
				!strings.Contains(id, "tts") &&
				!strings.Contains(id, "image")
		}
	}
	return false
}

func toChatMessages(messages []weatherbot.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		m := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		out = append(out, m)
	}
	return out
}
