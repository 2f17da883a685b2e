// internal/llm/claude/claude_test.go
package claude

import (
	"errors"
	"testing"

	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/llm"
)

var _ llm.Provider = (*Provider)(nil)

func TestNew_EmptyKeyIsConfigError(t *testing.T) {
	_, err := New("", "claude-sonnet-4-20250514")
	if !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("expected ErrConfigMissing, got %v", err)
	}
}

func TestNew_DefaultsToSonnet(t *testing.T) {
	p, err := New("test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.model != defaultModel {
		t.Errorf("expected model %s, got %s", defaultModel, p.model)
	}
}

func TestToMessages_RoleMapping(t *testing.T) {
	msgs := toMessages([]llm.Message{
		{Role: "user", Content: "analyze NVDA"},
		{Role: "assistant", Content: "strong uptrend"},
	})

	if len(msgs) != 2 {
		t.Fatalf("expected 2 message params, got %d", len(msgs))
	}
	if string(msgs[0].Role) != "user" {
		t.Errorf("expected user role, got %s", msgs[0].Role)
	}
	if string(msgs[1].Role) != "assistant" {
		t.Errorf("expected assistant role, got %s", msgs[1].Role)
	}
}
