// internal/api/handler/api/handler.go

// Package api contains the JSON endpoint handlers. Handlers parse the
// request, call the service layer and serialize the outcome; no
// business logic lives here.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/scrylabs/scry/internal/core"
	"github.com/scrylabs/scry/internal/market"
	"github.com/scrylabs/scry/internal/service"
)

// Analyzer is the slice of the service layer the handlers need.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string, opts service.Options) (*core.AnalysisResult, error)
	Quote(ctx context.Context, symbol string) (*core.Quote, error)
	History(ctx context.Context, symbol string, days int) (*market.History, error)
}

// statusFor maps the error taxonomy onto HTTP status codes. Anything
// unrecognized is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidSymbol), errors.Is(err, core.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
