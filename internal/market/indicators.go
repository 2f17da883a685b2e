package market

import (
	"context"

	"go.uber.org/zap"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/indicator"
)

// IndicatorResolver supplies indicator values from vendor endpoints,
// falling back to local computation over the resolved candle series.
// Indicators are enrichment only; every path here is best-effort.
type IndicatorResolver struct {
	sources []collector.IndicatorSource
	logger  *zap.Logger
}

// NewIndicatorResolver creates a resolver over sources in priority order.
func NewIndicatorResolver(sources []collector.IndicatorSource, logger *zap.Logger) *IndicatorResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndicatorResolver{sources: sources, logger: logger}
}

// Resolve returns values from the first source that produces any, then
// tries computing locally from candles. Returns nil when neither works.
func (r *IndicatorResolver) Resolve(ctx context.Context, symbol string, candles []core.Candle) *core.TechnicalIndicators {
	for _, s := range r.sources {
		ind, err := s.FetchIndicators(ctx, symbol)
		if err != nil {
			r.logger.Warn("indicator source failed",
				zap.String("source", s.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			continue
		}
		if ind != nil {
			return ind
		}
	}
	return indicator.Compute(candles)
}
