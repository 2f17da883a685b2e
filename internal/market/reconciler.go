// Package market combines the configured provider adapters into the
// reconciled views the analyzer consumes: a single best quote, a single
// best candle series, and best-effort indicator values.
package market

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
)

// Reconciler fans a quote request out to every configured provider and
// selects one winner.
type Reconciler struct {
	providers []collector.QuoteProvider
	logger    *zap.Logger
}

// NewReconciler creates a reconciler over providers in rank order.
func NewReconciler(providers []collector.QuoteProvider, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{providers: providers, logger: logger}
}

// Reconcile fetches from all providers concurrently and returns the
// candidate with the most recent timestamp. Provider rank is only a
// tie-breaker: a lower-ranked source with fresher data wins. Failing
// providers are skipped; zero candidates yields ErrNoData.
func (r *Reconciler) Reconcile(ctx context.Context, symbol string) (*core.Quote, error) {
	if len(r.providers) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no quote providers configured"))
	}

	candidates := make([]*core.Quote, len(r.providers))

	var wg sync.WaitGroup
	for i, p := range r.providers {
		wg.Add(1)
		go func(i int, p collector.QuoteProvider) {
			defer wg.Done()
			quote, err := p.FetchQuote(ctx, symbol)
			if err != nil {
				r.logger.Warn("quote provider failed",
					zap.String("provider", p.Name()),
					zap.String("symbol", symbol),
					zap.Error(err))
				return
			}
			if quote == nil || !quote.IsValid() {
				return
			}
			candidates[i] = quote
		}(i, p)
	}
	wg.Wait()

	// Strict > keeps the earlier (higher-ranked) provider on timestamp ties.
	var best *core.Quote
	for _, q := range candidates {
		if q == nil {
			continue
		}
		if best == nil || q.Timestamp > best.Timestamp {
			best = q
		}
	}
	if best == nil {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no quote candidates for %s", symbol))
	}

	finalizeChange(best)
	return best, nil
}

// finalizeChange derives the change fields from the winning candidate's
// own previous close. A candidate without one reports zero change; that
// approximation is preferred over mixing fields across sources.
func finalizeChange(q *core.Quote) {
	if q.PrevClose > 0 {
		q.Change = q.Price - q.PrevClose
		q.ChangePercent = (q.Price - q.PrevClose) / q.PrevClose * 100
		return
	}
	q.Change = 0
	q.ChangePercent = 0
}
