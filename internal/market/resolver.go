package market

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
)

// History is a resolved candle series with provenance.
type History struct {
	Candles []core.Candle
	Source  string
	Latest  int64
}

// Resolver walks history providers in fixed priority order and returns
// the first usable series.
type Resolver struct {
	providers []collector.HistoryProvider
	logger    *zap.Logger
}

// NewResolver creates a resolver over providers in priority order. The
// first provider is the primary vendor; the rest are fallbacks.
func NewResolver(providers []collector.HistoryProvider, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{providers: providers, logger: logger}
}

// Resolve returns the first non-empty series in priority order, or nil
// when no provider has data. Missing history is a recognized degraded
// state, not an error: callers fall back to price-only analysis.
//
// The primary vendor already returns candles oldest-first; fallback
// vendors return newest-first and are sorted ascending here.
func (r *Resolver) Resolve(ctx context.Context, symbol string, days int) *History {
	for i, p := range r.providers {
		candles, err := p.FetchHistory(ctx, symbol, days)
		if err != nil {
			r.logger.Warn("history provider failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			continue
		}

		candles = dropMalformed(candles)
		if len(candles) == 0 {
			continue
		}

		if i > 0 {
			sort.SliceStable(candles, func(a, b int) bool {
				return candles[a].Timestamp < candles[b].Timestamp
			})
		}

		return &History{
			Candles: candles,
			Source:  p.Name(),
			Latest:  candles[len(candles)-1].Timestamp,
		}
	}
	return nil
}

// dropMalformed removes records without a positive close; vendors
// occasionally emit null-filled rows around holidays.
func dropMalformed(candles []core.Candle) []core.Candle {
	out := candles[:0]
	for _, c := range candles {
		if c.Close > 0 {
			out = append(out, c)
		}
	}
	return out
}
