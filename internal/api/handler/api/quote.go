// internal/api/handler/api/quote.go
package api

import (
	"net/http"

	"github.com/scrylabs/scry/internal/api/response"
)

// QuoteHandler serves the reconciled live quote for a symbol.
type QuoteHandler struct {
	analyzer Analyzer
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(analyzer Analyzer) *QuoteHandler {
	return &QuoteHandler{analyzer: analyzer}
}

// Get returns the reconciled quote for the symbol in the path.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	quote, err := h.analyzer.Quote(r.Context(), r.PathValue("symbol"))
	if err != nil {
		response.Error(w, statusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, quote)
}
