// internal/api/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scrylabs/scry/internal/core"
)

func TestJSON_WrapsDataInEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]int{"score": 72})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json content type, got %q", ct)
	}

	var resp SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok || data["score"] != float64(72) {
		t.Errorf("expected payload under data, got %v", resp.Data)
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("expected timestamp in meta")
	}
}

func TestError_TaxonomyCodePassesThrough(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusNotFound, core.WrapError(core.ErrNoData, errors.New("all providers empty")))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Error.Code != "NO_DATA" {
		t.Errorf("expected NO_DATA, got %s", resp.Error.Code)
	}
	if resp.Error.Cause != "all providers empty" {
		t.Errorf("expected cause carried through, got %q", resp.Error.Cause)
	}
}

func TestError_BareSentinelHasNoCause(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, core.ErrConfigInvalid)

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Error.Code != "CONFIG_INVALID" {
		t.Errorf("expected CONFIG_INVALID, got %s", resp.Error.Code)
	}
	if resp.Error.Cause != "" {
		t.Errorf("expected empty cause, got %q", resp.Error.Cause)
	}
}

func TestError_PlainErrorStaysOpaque(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, errors.New("dial tcp: connection refused"))

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
	if resp.Error.Cause != "" {
		t.Error("expected plain error details kept out of the response")
	}
}
