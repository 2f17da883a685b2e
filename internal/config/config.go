package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/scrylabs/scry/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig              `mapstructure:"server"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Market    MarketConfig              `mapstructure:"market"`
	LLM       LLMConfig                 `mapstructure:"llm"`
	Narrative NarrativeConfig           `mapstructure:"narrative"`
	Blend     BlendConfig               `mapstructure:"blend"`
	Cache     CacheConfig               `mapstructure:"cache"`
	Metrics   MetricsConfig             `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// ProviderConfig holds one market-data vendor's settings. Keys are plain
// config values; use ${ENV_VAR} to pull them from the environment.
type ProviderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// MarketConfig controls provider ranking and history depth. ProviderOrder
// is the quote tie-break rank and the history fallback priority.
type MarketConfig struct {
	ProviderOrder []string `mapstructure:"provider_order"`
	HistoryDays   int      `mapstructure:"history_days"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// NarrativeConfig tunes the LLM narrative call.
type NarrativeConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

// BlendConfig selects how the LLM score folds into the technical score.
// Penalty is "none" or "conservative"; Grading is "lenient" or "strict".
type BlendConfig struct {
	Penalty string `mapstructure:"penalty"`
	Grading string `mapstructure:"grading"`
}

// CacheConfig sizes the boundary result cache.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity int           `mapstructure:"capacity"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads the config file at path, expands ${ENV_VAR} references
// and fills anything omitted from Defaults. Environment variables also
// override file values, with dots replaced by underscores.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	expandEnvRefs(v)

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// expandEnvRefs replaces ${ENV_VAR} string values with the variable's
// content, so credentials stay out of the config file itself.
func expandEnvRefs(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			name := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(name))
		}
	}
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Market: MarketConfig{
			ProviderOrder: []string{"finnhub", "twelvedata", "marketstack"},
			HistoryDays:   90,
		},
		Narrative: NarrativeConfig{
			Timeout:     30 * time.Second,
			MaxTokens:   1024,
			Temperature: 0.3,
		},
		Blend: BlendConfig{
			Penalty: "conservative",
			Grading: "lenient",
		},
		Cache: CacheConfig{
			TTL:      60 * time.Second,
			Capacity: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	// Market validation
	if c.Market.HistoryDays < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("history_days must be positive, got %d", c.Market.HistoryDays))
	}
	for _, name := range c.Market.ProviderOrder {
		switch name {
		case "finnhub", "twelvedata", "marketstack":
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown provider %q in provider_order", name))
		}
	}

	// Blend validation
	switch c.Blend.Penalty {
	case "", "none", "conservative":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("blend penalty must be none or conservative, got %q", c.Blend.Penalty))
	}
	switch c.Blend.Grading {
	case "", "lenient", "strict":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("blend grading must be lenient or strict, got %q", c.Blend.Grading))
	}

	// Cache validation
	if c.Cache.TTL < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cache ttl cannot be negative, got %s", c.Cache.TTL))
	}
	if c.Cache.Capacity < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cache capacity cannot be negative, got %d", c.Cache.Capacity))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
		}
	}

	return nil
}
