package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Gatherer = (*Registry)(nil)

func TestNewRegistry_IncludesRuntimeCollectors(t *testing.T) {
	reg := NewRegistry()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "go_goroutines" {
			return
		}
	}
	t.Error("expected go runtime collector metrics")
}

func TestRegistry_RecordRequest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("GET", "/api/v1/analysis/{symbol}", 200, 0.05)
	reg.RecordRequest("GET", "/api/v1/analysis/{symbol}", 200, 0.07)

	got := counterValue(t, reg, "http_requests_total", map[string]string{
		"method": "GET",
		"path":   "/api/v1/analysis/{symbol}",
		"status": "2xx",
	})
	if got != 2 {
		t.Errorf("expected 2 recorded requests, got %v", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}

	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.want {
			t.Errorf("statusClass(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.InFlightInc()
	reg.InFlightInc()
	reg.InFlightDec()

	if got := inFlightValue(t, reg); got != 1 {
		t.Errorf("expected in-flight gauge 1, got %v", got)
	}
}

func TestRegistry_DurationHistogram(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("POST", "/api/v1/analysis", 200, 0.123)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "http_request_duration_seconds" {
			continue
		}
		hist := mf.GetMetric()[0].GetHistogram()
		if hist.GetSampleCount() != 1 {
			t.Errorf("expected one sample, got %d", hist.GetSampleCount())
		}
		if sum := hist.GetSampleSum(); sum < 0.12 || sum > 0.13 {
			t.Errorf("expected sample sum ~0.123, got %v", sum)
		}
		return
	}
	t.Error("expected http_request_duration_seconds metric")
}

// counterValue gathers one counter, matching every given label.
func counterValue(t *testing.T, reg *Registry, name string, labels map[string]string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for k, v := range labels {
				matched := false
				for _, label := range m.GetLabel() {
					if label.GetName() == k && label.GetValue() == v {
						matched = true
					}
				}
				if !matched {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestRegistry_RecordAnalysis(t *testing.T) {
	reg := NewRegistry()

	reg.RecordAnalysis("ok", 0.2)
	reg.RecordAnalysis("ok", 0.3)
	reg.RecordAnalysis("no_data", 0.1)

	if got := counterValue(t, reg, "scry_analyses_total", map[string]string{"outcome": "ok"}); got != 2 {
		t.Errorf("expected 2 ok analyses, got %v", got)
	}
	if got := counterValue(t, reg, "scry_analyses_total", map[string]string{"outcome": "no_data"}); got != 1 {
		t.Errorf("expected 1 no_data analysis, got %v", got)
	}
}

func TestRegistry_RecordProviderRequest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordProviderRequest("finnhub", "quote", "ok")
	reg.RecordProviderRequest("finnhub", "quote", "error")
	reg.RecordProviderRequest("twelvedata", "history", "ok")

	got := counterValue(t, reg, "scry_provider_requests_total",
		map[string]string{"provider": "finnhub", "operation": "quote", "status": "error"})
	if got != 1 {
		t.Errorf("expected 1 finnhub quote error, got %v", got)
	}
}

func TestRegistry_RecordNarrative(t *testing.T) {
	reg := NewRegistry()

	reg.RecordNarrative("ok")
	reg.RecordNarrative("error")

	if got := counterValue(t, reg, "scry_narratives_total", map[string]string{"status": "error"}); got != 1 {
		t.Errorf("expected 1 narrative error, got %v", got)
	}
}

func TestRegistry_CacheCounters(t *testing.T) {
	reg := NewRegistry()

	reg.RecordCacheHit()
	reg.RecordCacheMiss()
	reg.RecordCacheMiss()

	if got := counterValue(t, reg, "scry_result_cache_hits_total", nil); got != 1 {
		t.Errorf("expected 1 cache hit, got %v", got)
	}
	if got := counterValue(t, reg, "scry_result_cache_misses_total", nil); got != 2 {
		t.Errorf("expected 2 cache misses, got %v", got)
	}
}
