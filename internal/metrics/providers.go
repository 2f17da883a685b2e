package metrics

import (
	"context"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
)

// Provider decorators that count vendor calls. Adapters are wrapped
// before registration so the reconciler and resolver stay metrics-free.

// InstrumentQuote wraps a quote provider with request counting.
func InstrumentQuote(p collector.QuoteProvider, reg *Registry) collector.QuoteProvider {
	return &instrumentedQuote{inner: p, reg: reg}
}

// InstrumentHistory wraps a history provider with request counting.
func InstrumentHistory(p collector.HistoryProvider, reg *Registry) collector.HistoryProvider {
	return &instrumentedHistory{inner: p, reg: reg}
}

// InstrumentProfile wraps a profile provider with request counting.
func InstrumentProfile(p collector.ProfileProvider, reg *Registry) collector.ProfileProvider {
	return &instrumentedProfile{inner: p, reg: reg}
}

// InstrumentIndicators wraps an indicator source with request counting.
func InstrumentIndicators(s collector.IndicatorSource, reg *Registry) collector.IndicatorSource {
	return &instrumentedIndicators{inner: s, reg: reg}
}

type instrumentedQuote struct {
	inner collector.QuoteProvider
	reg   *Registry
}

func (p *instrumentedQuote) Name() string { return p.inner.Name() }

func (p *instrumentedQuote) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	quote, err := p.inner.FetchQuote(ctx, symbol)
	p.reg.RecordProviderRequest(p.inner.Name(), "quote", callStatus(err))
	return quote, err
}

type instrumentedHistory struct {
	inner collector.HistoryProvider
	reg   *Registry
}

func (p *instrumentedHistory) Name() string { return p.inner.Name() }

func (p *instrumentedHistory) FetchHistory(ctx context.Context, symbol string, days int) ([]core.Candle, error) {
	candles, err := p.inner.FetchHistory(ctx, symbol, days)
	p.reg.RecordProviderRequest(p.inner.Name(), "history", callStatus(err))
	return candles, err
}

type instrumentedProfile struct {
	inner collector.ProfileProvider
	reg   *Registry
}

func (p *instrumentedProfile) Name() string { return p.inner.Name() }

func (p *instrumentedProfile) FetchProfile(ctx context.Context, symbol string) (*core.CompanyProfile, error) {
	profile, err := p.inner.FetchProfile(ctx, symbol)
	p.reg.RecordProviderRequest(p.inner.Name(), "profile", callStatus(err))
	return profile, err
}

type instrumentedIndicators struct {
	inner collector.IndicatorSource
	reg   *Registry
}

func (s *instrumentedIndicators) Name() string { return s.inner.Name() }

func (s *instrumentedIndicators) FetchIndicators(ctx context.Context, symbol string) (*core.TechnicalIndicators, error) {
	ind, err := s.inner.FetchIndicators(ctx, symbol)
	s.reg.RecordProviderRequest(s.inner.Name(), "indicators", callStatus(err))
	return ind, err
}

func callStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
