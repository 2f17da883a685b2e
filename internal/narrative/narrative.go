// Package narrative turns a scored technical analysis into a short
// model-written qualitative assessment of the same symbol.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/llm"
)

// Config tunes the generation call.
type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Generator produces narratives through a chat-completion provider.
type Generator struct {
	provider    llm.Provider
	logger      *zap.Logger
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// NewGenerator wires a provider with generation settings. Zero config
// fields get working defaults.
func NewGenerator(provider llm.Provider, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	return &Generator{
		provider:    provider,
		logger:      logger,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Generate asks the provider for a qualitative read of the technical
// result. Failures come back as errors; the caller decides whether the
// analysis ships without a narrative.
func (g *Generator) Generate(ctx context.Context, symbol string, profile *core.CompanyProfile, result *core.AnalysisResult) (*core.Narrative, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{llm.UserMessage(buildPrompt(symbol, profile, result))},
		MaxTokens:    g.maxTokens,
		Temperature:  g.temperature,
		JSONMode:     true,
	}

	resp, err := g.provider.Chat(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, core.WrapError(core.ErrLLMTimeout, err)
		}
		return nil, err
	}

	narrative, err := parseNarrative(resp.Content)
	if err != nil {
		g.logger.Warn("unparseable narrative response",
			zap.String("symbol", symbol),
			zap.String("provider", g.provider.Name()),
			zap.Error(err))
		return nil, err
	}

	narrative.Provider = g.provider.Name()
	return narrative, nil
}

func buildPrompt(symbol string, profile *core.CompanyProfile, result *core.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Symbol: %s\n\n", symbol))

	if profile != nil {
		sb.WriteString("## Company:\n")
		sb.WriteString(fmt.Sprintf("- Name: %s\n", profile.Name))
		if profile.Exchange != "" {
			sb.WriteString(fmt.Sprintf("- Exchange: %s\n", profile.Exchange))
		}
		if profile.Industry != "" {
			sb.WriteString(fmt.Sprintf("- Industry: %s\n", profile.Industry))
		}
		if profile.MarketCap > 0 {
			sb.WriteString(fmt.Sprintf("- Market cap: %.0fM %s\n", profile.MarketCap, profile.Currency))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Technical Picture:\n")
	sb.WriteString(fmt.Sprintf("- Price: %.2f\n", result.CurrentPrice))
	sb.WriteString(fmt.Sprintf("- Trend: %s (%s)\n", result.Trend.Direction, result.Trend.Strength))
	sb.WriteString(fmt.Sprintf("- Selling pressure: %s (%s)\n", result.Energy.SellingPressure, result.Energy.Pattern))
	sb.WriteString(fmt.Sprintf("- Volume balance: %.2f (%s)\n", result.OBVResidualRate, result.OBVStrength))
	sb.WriteString(fmt.Sprintf("- Last candle: %s %s\n", result.Candle.Direction, result.Candle.Pattern))
	sb.WriteString(fmt.Sprintf("- Signal: %s\n", result.Signal.Action))
	sb.WriteString(fmt.Sprintf("- Pattern similarity: %.0f%%, reference yield %.1f%%\n",
		result.Pattern.Similarity, result.Pattern.ReferenceYield))

	if ind := result.Indicators; ind != nil {
		if ind.RSI != nil {
			sb.WriteString(fmt.Sprintf("- RSI(14): %.1f\n", *ind.RSI))
		}
		if ind.MACD != nil {
			sb.WriteString(fmt.Sprintf("- MACD: %.3f signal %.3f histogram %.3f\n",
				ind.MACD.MACD, ind.MACD.Signal, ind.MACD.Histogram))
		}
		if ind.SMA != nil {
			sb.WriteString(fmt.Sprintf("- SMA20/SMA50: %.2f/%.2f\n", ind.SMA.SMA20, ind.SMA.SMA50))
		}
	}

	sb.WriteString(fmt.Sprintf("- Support %.2f, resistance %.2f\n", result.Support, result.Resistance))
	sb.WriteString(fmt.Sprintf("- Target %.2f (%.1f%%), stop %.2f (%.1f%%)\n",
		result.TargetPrice, result.TargetReturn, result.StopLoss, result.StopLossPercent))
	sb.WriteString(fmt.Sprintf("- Technical score: %d (%s)\n\n", result.Score, result.Grade))

	sb.WriteString("## Task:\n")
	sb.WriteString("Assess this setup independently. Weigh the technical picture against what you know about the company and its sector.\n")
	sb.WriteString("Respond with JSON containing: score (0-100), summary, risk_factors (array of strings), strategy, sentiment (bullish/bearish/neutral), confidence (0-1).\n")

	return sb.String()
}

// parseNarrative decodes the model reply, salvaging a JSON object out
// of surrounding prose or markdown fences when needed.
func parseNarrative(content string) (*core.Narrative, error) {
	var payload struct {
		Score       int      `json:"score"`
		Summary     string   `json:"summary"`
		RiskFactors []string `json:"risk_factors"`
		Strategy    string   `json:"strategy"`
		Sentiment   string   `json:"sentiment"`
		Confidence  float64  `json:"confidence"`
	}

	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, core.WrapError(core.ErrNarrativeInvalid, err)
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
			return nil, core.WrapError(core.ErrNarrativeInvalid, err)
		}
	}

	if payload.Summary == "" {
		return nil, core.WrapError(core.ErrNarrativeInvalid, fmt.Errorf("missing summary"))
	}

	if payload.Score < 0 {
		payload.Score = 0
	}
	if payload.Score > 100 {
		payload.Score = 100
	}
	switch payload.Sentiment {
	case "bullish", "bearish", "neutral":
	default:
		payload.Sentiment = "neutral"
	}
	if payload.Confidence < 0 {
		payload.Confidence = 0
	}
	if payload.Confidence > 1 {
		payload.Confidence = 1
	}

	return &core.Narrative{
		Score:       payload.Score,
		Summary:     payload.Summary,
		RiskFactors: payload.RiskFactors,
		Strategy:    payload.Strategy,
		Sentiment:   payload.Sentiment,
		Confidence:  payload.Confidence,
	}, nil
}

const systemPrompt = `You are an equity analyst reviewing a single stock. You receive a deterministic technical breakdown and optional company facts.

Your job is an independent qualitative read, not an echo of the technical score. Consider sector conditions, the company's position, and whether the technical setup looks durable or fragile.

Always respond with valid JSON in this format:
{
  "score": 0-100,
  "summary": "two or three sentences on the overall setup",
  "risk_factors": ["specific risk", "another risk"],
  "strategy": "one actionable suggestion for a retail position",
  "sentiment": "bullish" | "bearish" | "neutral",
  "confidence": 0.0-1.0
}

Be conservative when uncertain. A score near 50 signals no edge either way.`
