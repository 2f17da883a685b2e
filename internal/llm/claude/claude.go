// internal/llm/claude/claude.go
package claude

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/llm"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
)

// Provider runs chat completions against the Anthropic API.
type Provider struct {
	client anthropic.Client
	model  string
}

// New creates a Claude provider. The model defaults to a current
// Sonnet when unset.
func New(apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, core.WrapError(core.ErrConfigMissing, errors.New("anthropic api key is empty"))
	}
	if model == "" {
		model = defaultModel
	}
	return &Provider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return "claude" }

// Chat sends the request to the Messages API. There is no native JSON
// switch here; the system prompt carries the schema contract.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  toMessages(req.Messages),
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = defaultMaxTokens
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, core.WrapError(core.ErrLLMFailed, err)
	}

	out := &llm.ChatResponse{
		Usage: llm.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		FinishReason: string(resp.StopReason),
	}
	// The reply may open with non-text blocks; take the first text one.
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.Content = block.Text
			break
		}
	}
	return out, nil
}

// toMessages converts the conversation; the Messages API has no system
// role, so only user and assistant turns appear here.
func toMessages(msgs []llm.Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, len(msgs))
	for i, m := range msgs {
		if m.Role == "assistant" {
			params[i] = anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content))
		} else {
			params[i] = anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content))
		}
	}
	return params
}
