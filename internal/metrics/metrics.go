// Package metrics owns the Prometheus registry and every counter the
// rest of scry records into.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry wraps a dedicated Prometheus registry so tests never share
// global state.
type Registry struct {
	*prometheus.Registry

	// HTTP surface
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Domain counters
	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	providerRequests *prometheus.CounterVec
	narrativesTotal  *prometheus.CounterVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

// NewRegistry builds the registry with the runtime collectors and every
// scry metric already registered.
func NewRegistry() *Registry {
	r := &Registry{Registry: prometheus.NewRegistry()}
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.registerHTTPMetrics()
	r.registerDomainMetrics()
	return r
}

func (r *Registry) registerHTTPMetrics() {
	r.httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	r.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	r.httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently in flight",
	})

	r.MustRegister(r.httpRequestsTotal, r.httpRequestDuration, r.httpRequestsInFlight)
}

func (r *Registry) registerDomainMetrics() {
	r.analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scry_analyses_total",
		Help: "Total number of analysis requests by outcome",
	}, []string{"outcome"})

	r.analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scry_analysis_duration_seconds",
		Help:    "Analysis request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.providerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scry_provider_requests_total",
		Help: "Total number of market data provider requests",
	}, []string{"provider", "operation", "status"})

	r.narrativesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scry_narratives_total",
		Help: "Total number of narrative generation attempts",
	}, []string{"status"})

	r.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scry_result_cache_hits_total",
		Help: "Total number of result cache hits",
	})

	r.cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scry_result_cache_misses_total",
		Help: "Total number of result cache misses",
	})

	r.MustRegister(r.analysesTotal, r.analysisDuration, r.providerRequests,
		r.narrativesTotal, r.cacheHits, r.cacheMisses)
}

// RecordRequest records one finished HTTP request. Status is bucketed
// into classes to keep the label space small.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	r.httpRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments the in-flight gauge.
func (r *Registry) InFlightInc() { r.httpRequestsInFlight.Inc() }

// InFlightDec decrements the in-flight gauge.
func (r *Registry) InFlightDec() { r.httpRequestsInFlight.Dec() }

// RecordAnalysis records one analysis request. Outcome is ok, degraded,
// no_data or error.
func (r *Registry) RecordAnalysis(outcome string, duration float64) {
	r.analysesTotal.WithLabelValues(outcome).Inc()
	r.analysisDuration.Observe(duration)
}

// RecordProviderRequest records one vendor call. Operation is quote,
// history, profile or indicators; status is ok or error.
func (r *Registry) RecordProviderRequest(provider, operation, status string) {
	r.providerRequests.WithLabelValues(provider, operation, status).Inc()
}

// RecordNarrative records a narrative generation attempt. Status is ok
// or error.
func (r *Registry) RecordNarrative(status string) {
	r.narrativesTotal.WithLabelValues(status).Inc()
}

// RecordCacheHit records a result cache hit.
func (r *Registry) RecordCacheHit() {
	r.cacheHits.Inc()
}

// RecordCacheMiss records a result cache miss.
func (r *Registry) RecordCacheMiss() {
	r.cacheMisses.Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
