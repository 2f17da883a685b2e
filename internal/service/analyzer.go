// Package service orchestrates one analysis request end to end:
// concurrent market fetches, the degradation ladder, scoring, the
// optional LLM narrative, and the boundary result cache.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scrylabs/scry/internal/analysis"
	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/market"
	"github.com/scrylabs/scry/internal/metrics"
	"github.com/scrylabs/scry/internal/narrative"
	"github.com/scrylabs/scry/internal/storage/result"
)

// Options tune one analysis request.
type Options struct {
	// Days is the history depth in calendar days; 0 means the
	// configured default.
	Days int
	// Narrative asks the LLM collaborator for a second opinion. Ignored
	// when no LLM provider is configured.
	Narrative bool
}

// Config wires an Analyzer. Narrator, Cache and Metrics are optional.
type Config struct {
	Registry    *collector.Registry
	Narrator    *narrative.Generator
	BlendPolicy analysis.BlendPolicy
	Cache       *result.Store
	Metrics     *metrics.Registry
	DefaultDays int
}

// Analyzer is the application orchestrator: it reconciles a price,
// resolves history, scores the setup and optionally blends in a
// narrative.
type Analyzer struct {
	reconciler  *market.Reconciler
	resolver    *market.Resolver
	indicators  *market.IndicatorResolver
	profiles    []collector.ProfileProvider
	narrator    *narrative.Generator
	blend       analysis.BlendPolicy
	cache       *result.Store
	metrics     *metrics.Registry
	logger      *zap.Logger
	defaultDays int
	now         func() time.Time
}

// NewAnalyzer creates an analyzer over the registered providers.
func NewAnalyzer(cfg Config, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = collector.NewRegistry()
	}
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 90
	}

	return &Analyzer{
		reconciler:  market.NewReconciler(cfg.Registry.QuoteProviders(), logger),
		resolver:    market.NewResolver(cfg.Registry.HistoryProviders(), logger),
		indicators:  market.NewIndicatorResolver(cfg.Registry.IndicatorSources(), logger),
		profiles:    cfg.Registry.ProfileProviders(),
		narrator:    cfg.Narrator,
		blend:       cfg.BlendPolicy,
		cache:       cfg.Cache,
		metrics:     cfg.Metrics,
		logger:      logger,
		defaultDays: cfg.DefaultDays,
		now:         time.Now,
	}
}

// Analyze produces a full scored result for symbol. Partial provider
// failures degrade the analysis instead of failing it; only the total
// absence of both price and history is an error.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, opts Options) (*core.AnalysisResult, error) {
	start := a.now()

	symbol = normalizeSymbol(symbol)
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrInvalidSymbol, err)
	}

	days := opts.Days
	if days <= 0 {
		days = a.defaultDays
	}
	wantNarrative := opts.Narrative && a.narrator != nil

	cacheKey := fmt.Sprintf("%s:%d:%t", symbol, days, wantNarrative)
	if a.cache != nil {
		if cached, ok := a.cache.Get(cacheKey); ok {
			a.recordCacheHit()
			return cached, nil
		}
		a.recordCacheMiss()
	}

	quote, history, profile := a.fetchMarketData(ctx, symbol, days, wantNarrative)

	var (
		price         float64
		priceSource   string
		candles       []core.Candle
		historySource string
		degraded      bool
	)
	switch {
	case quote != nil && history != nil:
		price, priceSource = quote.Price, quote.Source
		candles, historySource = history.Candles, history.Source
	case quote != nil:
		// Price-only: a single synthetic zero-volume candle at the
		// current price keeps the engine fed.
		price, priceSource = quote.Price, quote.Source
		candles = []core.Candle{{
			Open:      quote.Price,
			High:      quote.Price,
			Low:       quote.Price,
			Close:     quote.Price,
			Timestamp: quote.Timestamp,
		}}
		degraded = true
	case history != nil:
		// History-only: the most recent close stands in for the live
		// price and the history vendor becomes the price source.
		last := history.Candles[len(history.Candles)-1]
		price, priceSource = last.Close, history.Source
		candles, historySource = history.Candles, history.Source
		degraded = true
	default:
		if err := ctx.Err(); err != nil {
			a.recordAnalysis("error", start)
			return nil, err
		}
		a.recordAnalysis("no_data", start)
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no price or history for %s", symbol))
	}

	ind := a.indicators.Resolve(ctx, symbol, candles)

	res, err := analysis.Compute(price, candles, ind)
	if err != nil {
		a.recordAnalysis("error", start)
		return nil, err
	}

	res.Symbol = symbol
	res.PriceSource = priceSource
	res.HistorySource = historySource
	res.AnalyzedAt = a.now().UTC()

	if wantNarrative {
		n, err := a.narrator.Generate(ctx, symbol, profile, res)
		if err != nil {
			// Narrative failure never fails the request; the technical
			// result ships on its own.
			a.logger.Warn("narrative generation failed",
				zap.String("symbol", symbol),
				zap.Error(err))
			a.recordNarrative("error")
		} else {
			res = analysis.Blend(res, n, a.blend)
			a.recordNarrative("ok")
		}
	}

	if a.cache != nil {
		a.cache.Put(cacheKey, res)
	}

	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	a.recordAnalysis(outcome, start)

	return res, nil
}

// Quote returns the reconciled quote for symbol.
func (a *Analyzer) Quote(ctx context.Context, symbol string) (*core.Quote, error) {
	symbol = normalizeSymbol(symbol)
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrInvalidSymbol, err)
	}
	return a.reconciler.Reconcile(ctx, symbol)
}

// History returns the resolved candle series for symbol. Unlike the
// internal resolver, no data here is an error: the endpoint has
// nothing to serve.
func (a *Analyzer) History(ctx context.Context, symbol string, days int) (*market.History, error) {
	symbol = normalizeSymbol(symbol)
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrInvalidSymbol, err)
	}
	if days <= 0 {
		days = a.defaultDays
	}

	history := a.resolver.Resolve(ctx, symbol, days)
	if history == nil {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no history for %s", symbol))
	}
	return history, nil
}

// fetchMarketData runs the quote, history and profile fetches
// concurrently. The profile is only fetched when a narrative will want
// it. Each fetch fails independently; missing data comes back nil.
func (a *Analyzer) fetchMarketData(ctx context.Context, symbol string, days int, wantProfile bool) (*core.Quote, *market.History, *core.CompanyProfile) {
	var (
		wg      sync.WaitGroup
		quote   *core.Quote
		history *market.History
		profile *core.CompanyProfile
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		q, err := a.reconciler.Reconcile(ctx, symbol)
		if err != nil {
			a.logger.Warn("price reconciliation failed",
				zap.String("symbol", symbol),
				zap.Error(err))
			return
		}
		quote = q
	}()
	go func() {
		defer wg.Done()
		history = a.resolver.Resolve(ctx, symbol, days)
	}()

	if wantProfile && len(a.profiles) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			profile = a.fetchProfile(ctx, symbol)
		}()
	}

	wg.Wait()
	return quote, history, profile
}

// fetchProfile walks profile providers in order; first success wins.
func (a *Analyzer) fetchProfile(ctx context.Context, symbol string) *core.CompanyProfile {
	for _, p := range a.profiles {
		profile, err := p.FetchProfile(ctx, symbol)
		if err != nil {
			a.logger.Debug("profile fetch failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			continue
		}
		if profile != nil {
			return profile
		}
	}
	return nil
}

func (a *Analyzer) recordAnalysis(outcome string, start time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordAnalysis(outcome, a.now().Sub(start).Seconds())
}

func (a *Analyzer) recordNarrative(status string) {
	if a.metrics != nil {
		a.metrics.RecordNarrative(status)
	}
}

func (a *Analyzer) recordCacheHit() {
	if a.metrics != nil {
		a.metrics.RecordCacheHit()
	}
}

func (a *Analyzer) recordCacheMiss() {
	if a.metrics != nil {
		a.metrics.RecordCacheMiss()
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
