// internal/llm/factory/factory.go

// Package factory maps the configured provider name to a concrete
// llm.Provider. It is the only place that imports all three vendor
// packages, so the rest of scry depends on the interface alone.
package factory

import (
	"fmt"

	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/llm"
	"github.com/scrylabs/scry/internal/llm/claude"
	"github.com/scrylabs/scry/internal/llm/ollama"
	"github.com/scrylabs/scry/internal/llm/openai"
)

// New builds the provider selected by cfg.Provider. Vendor credentials
// are validated by the constructors, not here.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown llm provider %q", cfg.Provider))
	}
}
