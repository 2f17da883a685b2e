// Package llm abstracts the chat-completion backends the narrative
// layer can run against. Implementations live in subpackages; the
// factory picks one from configuration.
package llm

import "context"

// Provider is a chat-completion backend.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest carries one completion exchange.
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	// JSONMode asks the backend for a machine-parseable JSON object
	// where the API supports it; the prompt must still state the
	// schema because not every backend honors the switch.
	JSONMode bool
}

// Message is a single turn. Role is "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// UserMessage wraps content as a single user turn.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ChatResponse is the provider-neutral reply.
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
