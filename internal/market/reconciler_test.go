package market

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
)

type fakeQuoteProvider struct {
	name  string
	quote *core.Quote
	err   error
}

func (f *fakeQuoteProvider) Name() string { return f.name }
func (f *fakeQuoteProvider) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	q := *f.quote
	q.Symbol = symbol
	return &q, nil
}

func TestReconciler_MostRecentWins(t *testing.T) {
	r := NewReconciler([]collector.QuoteProvider{
		&fakeQuoteProvider{name: "a", quote: &core.Quote{Price: 100, Timestamp: 1000, Source: "a"}},
		&fakeQuoteProvider{name: "b", quote: &core.Quote{Price: 101, Timestamp: 3000, Source: "b"}},
		&fakeQuoteProvider{name: "c", quote: &core.Quote{Price: 102, Timestamp: 2000, Source: "c"}},
	}, nil)

	quote, err := r.Reconcile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if quote.Source != "b" {
		t.Errorf("expected freshest source b, got %s", quote.Source)
	}
	if quote.Price != 101 {
		t.Errorf("expected price 101, got %f", quote.Price)
	}
}

func TestReconciler_RankBreaksTies(t *testing.T) {
	r := NewReconciler([]collector.QuoteProvider{
		&fakeQuoteProvider{name: "first", quote: &core.Quote{Price: 100, Timestamp: 2000, Source: "first"}},
		&fakeQuoteProvider{name: "second", quote: &core.Quote{Price: 101, Timestamp: 2000, Source: "second"}},
	}, nil)

	quote, err := r.Reconcile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if quote.Source != "first" {
		t.Errorf("expected higher-ranked source on tie, got %s", quote.Source)
	}
}

func TestReconciler_SkipsFailedProviders(t *testing.T) {
	r := NewReconciler([]collector.QuoteProvider{
		&fakeQuoteProvider{name: "down", err: errors.New("connection refused")},
		&fakeQuoteProvider{name: "up", quote: &core.Quote{Price: 55, Timestamp: 10, Source: "up"}},
	}, nil)

	quote, err := r.Reconcile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("one healthy provider should be enough: %v", err)
	}
	if quote.Source != "up" {
		t.Errorf("expected source up, got %s", quote.Source)
	}
}

func TestReconciler_AllFail(t *testing.T) {
	r := NewReconciler([]collector.QuoteProvider{
		&fakeQuoteProvider{name: "a", err: errors.New("timeout")},
		&fakeQuoteProvider{name: "b", err: errors.New("rate limited")},
	}, nil)

	_, err := r.Reconcile(context.Background(), "AAPL")
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestReconciler_NoProviders(t *testing.T) {
	r := NewReconciler(nil, nil)
	_, err := r.Reconcile(context.Background(), "AAPL")
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestReconciler_InvalidCandidatesIgnored(t *testing.T) {
	r := NewReconciler([]collector.QuoteProvider{
		&fakeQuoteProvider{name: "zero", quote: &core.Quote{Price: 0, Timestamp: 9000, Source: "zero"}},
		&fakeQuoteProvider{name: "ok", quote: &core.Quote{Price: 42, Timestamp: 100, Source: "ok"}},
	}, nil)

	quote, err := r.Reconcile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if quote.Source != "ok" {
		t.Errorf("zero-price candidate should be ignored, got %s", quote.Source)
	}
}

// Change fields come from the winner's own previous close only.
func TestReconciler_ChangeFromWinnerPrevClose(t *testing.T) {
	r := NewReconciler([]collector.QuoteProvider{
		&fakeQuoteProvider{name: "w", quote: &core.Quote{Price: 105, PrevClose: 100, Timestamp: 2000, Source: "w"}},
		&fakeQuoteProvider{name: "l", quote: &core.Quote{Price: 104, PrevClose: 90, Timestamp: 1000, Source: "l"}},
	}, nil)

	quote, err := r.Reconcile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	// (105-100)/100*100 = 5%
	if math.Abs(quote.ChangePercent-5.0) > 1e-9 {
		t.Errorf("expected change percent 5.0, got %f", quote.ChangePercent)
	}
	if math.Abs(quote.Change-5.0) > 1e-9 {
		t.Errorf("expected change 5.0, got %f", quote.Change)
	}
}

// A winner without a previous close reports zero change rather than
// borrowing a close from a losing source.
func TestReconciler_NoPrevCloseZeroChange(t *testing.T) {
	r := NewReconciler([]collector.QuoteProvider{
		&fakeQuoteProvider{name: "eod", quote: &core.Quote{Price: 231.59, Timestamp: 5000, Source: "eod"}},
		&fakeQuoteProvider{name: "live", quote: &core.Quote{Price: 230, PrevClose: 228, Timestamp: 1000, Source: "live"}},
	}, nil)

	quote, err := r.Reconcile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if quote.Source != "eod" {
		t.Fatalf("expected eod winner, got %s", quote.Source)
	}
	if quote.Change != 0 || quote.ChangePercent != 0 {
		t.Errorf("expected zero change without prev close, got %f / %f", quote.Change, quote.ChangePercent)
	}
}
