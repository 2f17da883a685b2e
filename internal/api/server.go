// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/scrylabs/scry/internal/api/handler/api"
	"github.com/scrylabs/scry/internal/api/middleware"
	"github.com/scrylabs/scry/internal/metrics"
	"github.com/scrylabs/scry/internal/service"
)

// Server is the HTTP front of the analyzer.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration. An empty APIKey disables
// authentication; an empty MetricsPath means /metrics.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Dependencies carries the wired application components the routes
// need. Metrics is optional.
type Dependencies struct {
	Analyzer *service.Analyzer
	Metrics  *metrics.Registry
}

// NewServer creates the HTTP server with all routes and middleware
// attached.
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)

	// Middleware wraps the whole mux so every route is measured and
	// logged. The request runs mux-first, which sets r.Pattern for the
	// metrics labels.
	handler := http.Handler(mux)
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)
	s.httpServer.Handler = handler

	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	auth := middleware.APIKeyAuth(cfg.APIKey)

	analysis := apihandler.NewAnalysisHandler(deps.Analyzer)
	quote := apihandler.NewQuoteHandler(deps.Analyzer)
	history := apihandler.NewHistoryHandler(deps.Analyzer)

	s.mux.Handle("GET /api/v1/analysis/{symbol}", auth(http.HandlerFunc(analysis.Get)))
	s.mux.Handle("GET /api/v1/quote/{symbol}", auth(http.HandlerFunc(quote.Get)))
	s.mux.Handle("GET /api/v1/history/{symbol}", auth(http.HandlerFunc(history.Get)))

	// Health and metrics stay outside the auth gate for probes and
	// scrapers.
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
