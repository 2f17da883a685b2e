// internal/api/response/response.go

// Package response defines the JSON envelope every API endpoint
// writes: successes as {"data": ..., "meta": ...} and failures as
// {"error": {code, message, cause}}. Handlers never build raw JSON
// themselves.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/scrylabs/scry/internal/core"
)

// Meta rides alongside every success payload.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse wraps a payload in the success envelope.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail is the serialized form of the core error taxonomy.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse wraps an ErrorDetail in the error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// JSON writes data in the success envelope with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	})
}

// Error writes err in the error envelope. Errors from the core
// taxonomy keep their code, message and cause; any other error is
// reported as an opaque internal error.
func Error(w http.ResponseWriter, status int, err error) {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		detail.Code = coreErr.Code
		detail.Message = coreErr.Message
		if coreErr.Cause != nil {
			detail.Cause = coreErr.Cause.Error()
		}
	}

	write(w, status, ErrorResponse{Error: detail})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// An encode failure here cannot reach the client anymore; the
	// status line is already written.
	_ = json.NewEncoder(w).Encode(payload)
}
