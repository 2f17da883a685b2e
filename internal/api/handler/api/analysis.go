// internal/api/handler/api/analysis.go
package api

import (
	"net/http"
	"strconv"

	"github.com/scrylabs/scry/internal/api/response"
	"github.com/scrylabs/scry/internal/service"
)

// AnalysisHandler serves the full scored analysis for a symbol.
type AnalysisHandler struct {
	analyzer Analyzer
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(analyzer Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

// Get runs an analysis for the symbol in the path. Query parameters:
// days sets the history depth, narrative asks for the LLM second
// opinion. Malformed values fall back to the defaults.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	var opts service.Options

	q := r.URL.Query()
	if days := q.Get("days"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			opts.Days = n
		}
	}
	if narrative := q.Get("narrative"); narrative != "" {
		if b, err := strconv.ParseBool(narrative); err == nil {
			opts.Narrative = b
		}
	}

	result, err := h.analyzer.Analyze(r.Context(), r.PathValue("symbol"), opts)
	if err != nil {
		response.Error(w, statusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
