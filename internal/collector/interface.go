package collector

import (
	"context"

	"github.com/scrylabs/scry/internal/core"
)

// QuoteProvider fetches the latest price snapshot for a symbol.
// Implementations return an error on transport or vendor failure;
// callers treat that as "no data from this provider" and move on.
type QuoteProvider interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (*core.Quote, error)
}

// HistoryProvider fetches a daily OHLCV series covering roughly the
// requested number of calendar days, ordered oldest-first.
type HistoryProvider interface {
	Name() string
	FetchHistory(ctx context.Context, symbol string, days int) ([]core.Candle, error)
}

// ProfileProvider fetches descriptive company data.
type ProfileProvider interface {
	Name() string
	FetchProfile(ctx context.Context, symbol string) (*core.CompanyProfile, error)
}

// IndicatorSource supplies technical indicator values for a symbol.
// Indicators are optional enrichment; a failing source yields an error
// that callers downgrade to "indicators unavailable".
type IndicatorSource interface {
	Name() string
	FetchIndicators(ctx context.Context, symbol string) (*core.TechnicalIndicators, error)
}
