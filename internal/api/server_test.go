// internal/api/server_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/metrics"
	"github.com/scrylabs/scry/internal/service"
)

type staticQuotes struct{}

func (staticQuotes) Name() string { return "static" }

func (staticQuotes) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	return &core.Quote{Symbol: symbol, Price: 100, Timestamp: 1701000000, Source: "static"}, nil
}

type staticHistory struct{}

func (staticHistory) Name() string { return "static" }

func (staticHistory) FetchHistory(ctx context.Context, symbol string, days int) ([]core.Candle, error) {
	candles := make([]core.Candle, 12)
	for i := range candles {
		price := 100.0 + float64(i)
		candles[i] = core.Candle{
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000,
			Timestamp: 1700000000 + int64(i)*86400,
		}
	}
	return candles, nil
}

func testDependencies() Dependencies {
	reg := collector.NewRegistry()
	reg.RegisterQuote(staticQuotes{})
	reg.RegisterHistory(staticHistory{})
	return Dependencies{
		Analyzer: service.NewAnalyzer(service.Config{Registry: reg}, nil),
	}
}

func TestServer_Health(t *testing.T) {
	srv, err := NewServer(Config{Host: "localhost", Port: 0}, testDependencies(), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestServer_Analysis(t *testing.T) {
	srv, err := NewServer(Config{Host: "localhost", Port: 0}, testDependencies(), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/analysis/AAPL", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"symbol":"AAPL"`) {
		t.Errorf("expected analysis payload, got %s", w.Body.String())
	}
}

func TestServer_APIAuth_Required(t *testing.T) {
	srv, _ := NewServer(Config{
		Host:   "localhost",
		Port:   0,
		APIKey: "test-key",
	}, testDependencies(), zap.NewNop())

	// Without API key
	req := httptest.NewRequest("GET", "/api/v1/quote/AAPL", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}
}

func TestServer_APIAuth_ValidKey(t *testing.T) {
	srv, _ := NewServer(Config{
		Host:   "localhost",
		Port:   0,
		APIKey: "test-key",
	}, testDependencies(), zap.NewNop())

	// With API key
	req := httptest.NewRequest("GET", "/api/v1/quote/AAPL", nil)
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", w.Code)
	}
}

func TestServer_APIAuth_Disabled(t *testing.T) {
	// Empty APIKey = disabled auth
	srv, _ := NewServer(Config{
		Host:   "localhost",
		Port:   0,
		APIKey: "",
	}, testDependencies(), zap.NewNop())

	req := httptest.NewRequest("GET", "/api/v1/quote/AAPL", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with disabled auth, got %d", w.Code)
	}
}

func TestServer_HealthBypassesAuth(t *testing.T) {
	srv, _ := NewServer(Config{
		Host:   "localhost",
		Port:   0,
		APIKey: "test-key",
	}, testDependencies(), zap.NewNop())

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected health to skip auth, got %d", w.Code)
	}
}

func TestServer_Metrics(t *testing.T) {
	deps := testDependencies()
	deps.Metrics = metrics.NewRegistry()

	srv, err := NewServer(Config{Host: "localhost", Port: 0}, deps, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "scry_result_cache_hits_total") {
		t.Error("expected registry metrics in exposition")
	}
}

func TestServer_NoMetricsRoute(t *testing.T) {
	srv, _ := NewServer(Config{Host: "localhost", Port: 0}, testDependencies(), zap.NewNop())

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a metrics registry, got %d", w.Code)
	}
}

func TestServer_RequestIDHeader(t *testing.T) {
	srv, _ := NewServer(Config{Host: "localhost", Port: 0}, testDependencies(), zap.NewNop())

	// The full middleware chain, not just the mux.
	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header from the logging middleware")
	}
}

func TestServer_RequiresAnalyzer(t *testing.T) {
	if _, err := NewServer(Config{}, Dependencies{}, zap.NewNop()); err == nil {
		t.Error("expected an error without an analyzer")
	}
}
