// internal/llm/ollama/ollama.go
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/llm"
)

const (
	defaultEndpoint  = "http://localhost:11434"
	defaultModel     = "qwen2.5:32b"
	defaultMaxTokens = 1024
)

// Provider runs chat completions against a local Ollama server.
type Provider struct {
	endpoint string
	model    string
	client   *http.Client
}

// New creates an Ollama provider. Endpoint and model fall back to
// local defaults, so the zero config is usable.
func New(endpoint, model string) (*Provider, error) {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if model == "" {
		model = defaultModel
	}
	return &Provider{
		endpoint: endpoint,
		model:    model,
		// Local inference can take minutes on large models.
		client: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return "ollama" }

// Chat posts a non-streaming request to /api/chat.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	wire := chatRequest{
		Model:    p.model,
		Messages: toMessages(req),
		Options: chatOptions{
			NumPredict:  req.MaxTokens,
			Temperature: req.Temperature,
		},
	}
	if wire.Options.NumPredict <= 0 {
		wire.Options.NumPredict = defaultMaxTokens
	}
	if req.JSONMode {
		wire.Format = "json"
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, core.WrapError(core.ErrLLMFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrLLMFailed, fmt.Errorf("ollama returned status %d", resp.StatusCode))
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}

	return &llm.ChatResponse{
		Content: reply.Message.Content,
		Usage: llm.Usage{
			InputTokens:  reply.PromptEvalCount,
			OutputTokens: reply.EvalCount,
		},
		FinishReason: reply.DoneReason,
	}, nil
}

// toMessages prepends the system prompt; Ollama accepts a system role
// inline in the conversation.
func toMessages(req llm.ChatRequest) []chatMessage {
	messages := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	return messages
}

// Wire types for the /api/chat endpoint.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options,omitempty"`
	Format   string        `json:"format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	CreatedAt       string      `json:"created_at"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}
