// internal/llm/ollama/ollama_test.go
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/llm"
)

var _ llm.Provider = (*Provider)(nil)

func TestNew_Defaults(t *testing.T) {
	p, err := New("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.endpoint != defaultEndpoint {
		t.Errorf("expected default endpoint %s, got %s", defaultEndpoint, p.endpoint)
	}
	if p.model != defaultModel {
		t.Errorf("expected default model %s, got %s", defaultModel, p.model)
	}
}

func TestNew_CustomValues(t *testing.T) {
	p, err := New("http://custom:8080", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.endpoint != "http://custom:8080" {
		t.Errorf("expected custom endpoint, got %s", p.endpoint)
	}
	if p.model != "llama3" {
		t.Errorf("expected custom model, got %s", p.model)
	}
}

func TestChat(t *testing.T) {
	var received chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(chatResponse{
			Model:           "llama3",
			Message:         chatMessage{Role: "assistant", Content: `{"ok":true}`},
			Done:            true,
			DoneReason:      "stop",
			PromptEvalCount: 120,
			EvalCount:       40,
		})
	}))
	defer server.Close()

	p, _ := New(server.URL, "llama3")
	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		SystemPrompt: "be terse",
		Messages:     []llm.Message{llm.UserMessage("analyze AAPL")},
		MaxTokens:    256,
		Temperature:  0.3,
		JSONMode:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != `{"ok":true}` {
		t.Errorf("unexpected content: %s", resp.Content)
	}
	if resp.Usage.InputTokens != 120 || resp.Usage.OutputTokens != 40 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("unexpected finish reason: %s", resp.FinishReason)
	}

	if received.Format != "json" {
		t.Errorf("expected json format flag, got %q", received.Format)
	}
	if received.Stream {
		t.Error("expected streaming disabled")
	}
	// System prompt becomes the first message.
	if len(received.Messages) != 2 || received.Messages[0].Role != "system" {
		t.Errorf("unexpected messages: %+v", received.Messages)
	}
	if received.Options.NumPredict != 256 {
		t.Errorf("expected num_predict 256, got %d", received.Options.NumPredict)
	}
}

func TestChat_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p, _ := New(server.URL, "llama3")
	_, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{llm.UserMessage("hello")},
	})
	if !errors.Is(err, core.ErrLLMFailed) {
		t.Errorf("expected ErrLLMFailed, got %v", err)
	}
}
