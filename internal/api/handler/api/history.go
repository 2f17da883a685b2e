// internal/api/handler/api/history.go
package api

import (
	"net/http"
	"strconv"

	"github.com/scrylabs/scry/internal/api/response"
	"github.com/scrylabs/scry/internal/core"
)

// HistoryResponse is a resolved candle series with provenance.
type HistoryResponse struct {
	Source  string        `json:"source"`
	Latest  int64         `json:"latest"`
	Count   int           `json:"count"`
	Candles []core.Candle `json:"candles"`
}

// HistoryHandler serves daily candle history for a symbol.
type HistoryHandler struct {
	analyzer Analyzer
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(analyzer Analyzer) *HistoryHandler {
	return &HistoryHandler{analyzer: analyzer}
}

// Get returns the candle series for the symbol in the path. The days
// query parameter sets the depth; 0 or malformed means the default.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	var days int
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}

	history, err := h.analyzer.History(r.Context(), r.PathValue("symbol"), days)
	if err != nil {
		response.Error(w, statusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, HistoryResponse{
		Source:  history.Source,
		Latest:  history.Latest,
		Count:   len(history.Candles),
		Candles: history.Candles,
	})
}
