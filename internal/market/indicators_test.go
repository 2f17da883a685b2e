package market

import (
	"context"
	"errors"
	"testing"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
)

type fakeIndicatorSource struct {
	name string
	ind  *core.TechnicalIndicators
	err  error
}

func (f *fakeIndicatorSource) Name() string { return f.name }
func (f *fakeIndicatorSource) FetchIndicators(ctx context.Context, symbol string) (*core.TechnicalIndicators, error) {
	return f.ind, f.err
}

func TestIndicatorResolver_SourceWins(t *testing.T) {
	rsi := 55.0
	r := NewIndicatorResolver([]collector.IndicatorSource{
		&fakeIndicatorSource{name: "vendor", ind: &core.TechnicalIndicators{RSI: &rsi}},
	}, nil)

	ind := r.Resolve(context.Background(), "AAPL", nil)
	if ind == nil || ind.RSI == nil || *ind.RSI != 55.0 {
		t.Errorf("expected vendor RSI 55, got %+v", ind)
	}
}

func TestIndicatorResolver_LocalFallback(t *testing.T) {
	r := NewIndicatorResolver([]collector.IndicatorSource{
		&fakeIndicatorSource{name: "vendor", err: errors.New("rate limited")},
	}, nil)

	candles := make([]core.Candle, 120)
	for i := range candles {
		price := 100 + float64(i)*0.5
		candles[i] = core.Candle{Open: price, High: price, Low: price, Close: price, Volume: 1000}
	}

	ind := r.Resolve(context.Background(), "AAPL", candles)
	if ind == nil {
		t.Fatal("expected locally computed indicators")
	}
	if ind.RSI == nil || ind.SMA == nil {
		t.Errorf("expected RSI and SMA from local computation, got %+v", ind)
	}
}

func TestIndicatorResolver_NilWhenNothingWorks(t *testing.T) {
	r := NewIndicatorResolver([]collector.IndicatorSource{
		&fakeIndicatorSource{name: "vendor", err: errors.New("down")},
	}, nil)

	// Five candles are too few for any local indicator.
	candles := make([]core.Candle, 5)
	for i := range candles {
		candles[i] = core.Candle{Close: 100}
	}

	if ind := r.Resolve(context.Background(), "AAPL", candles); ind != nil {
		t.Errorf("expected nil indicators, got %+v", ind)
	}
}

func TestIndicatorResolver_NoSources(t *testing.T) {
	r := NewIndicatorResolver(nil, nil)
	if ind := r.Resolve(context.Background(), "AAPL", nil); ind != nil {
		t.Errorf("expected nil with no sources and no candles, got %+v", ind)
	}
}
