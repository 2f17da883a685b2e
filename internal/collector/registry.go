package collector

import "sync"

// Registry manages provider adapters by capability. Quote and history
// providers keep registration order: the reconciler uses it for
// tie-breaking and the resolver as its fallback priority.
type Registry struct {
	mu         sync.RWMutex
	quotes     []QuoteProvider
	histories  []HistoryProvider
	profiles   []ProfileProvider
	indicators []IndicatorSource
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterQuote adds a quote provider. Order of registration is the
// configured provider rank.
func (r *Registry) RegisterQuote(p QuoteProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes = append(r.quotes, p)
}

// RegisterHistory adds a history provider in fallback priority order.
func (r *Registry) RegisterHistory(p HistoryProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories = append(r.histories, p)
}

// RegisterProfile adds a profile provider.
func (r *Registry) RegisterProfile(p ProfileProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, p)
}

// RegisterIndicators adds an indicator source in fallback priority order.
func (r *Registry) RegisterIndicators(s IndicatorSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indicators = append(r.indicators, s)
}

// QuoteProviders returns registered quote providers in rank order.
func (r *Registry) QuoteProviders() []QuoteProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]QuoteProvider, len(r.quotes))
	copy(out, r.quotes)
	return out
}

// HistoryProviders returns registered history providers in priority order.
func (r *Registry) HistoryProviders() []HistoryProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]HistoryProvider, len(r.histories))
	copy(out, r.histories)
	return out
}

// ProfileProviders returns registered profile providers.
func (r *Registry) ProfileProviders() []ProfileProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProfileProvider, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// IndicatorSources returns registered indicator sources in priority order.
func (r *Registry) IndicatorSources() []IndicatorSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]IndicatorSource, len(r.indicators))
	copy(out, r.indicators)
	return out
}
