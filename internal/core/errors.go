// internal/core/errors.go
package core

import "fmt"

// Error is the taxonomy error passed across package boundaries. Code
// is stable and machine readable, Message is the default human line,
// Cause keeps the underlying vendor error for logs. The API layer maps
// codes to HTTP statuses.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches by code, so a wrapped sentinel still compares equal to
// its base.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// WrapError attaches a cause to a sentinel without mutating it.
func WrapError(base *Error, cause error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Cause: cause}
}

// Sentinels, grouped by the subsystem that raises them.
var (
	// Input validation
	ErrInvalidSymbol = &Error{Code: "INVALID_SYMBOL", Message: "symbol is empty or malformed"}
	ErrInvalidPrice  = &Error{Code: "INVALID_PRICE", Message: "current price must be a positive finite number"}

	// Market data
	ErrNoData          = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrProviderFailed  = &Error{Code: "PROVIDER_FAILED", Message: "provider request failed"}
	ErrProviderTimeout = &Error{Code: "PROVIDER_TIMEOUT", Message: "provider request timeout"}

	// Analysis
	ErrIndicatorsUnavailable = &Error{Code: "INDICATORS_UNAVAILABLE", Message: "no indicator source produced values"}

	// Configuration
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Narrative
	ErrLLMFailed        = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}
	ErrLLMTimeout       = &Error{Code: "LLM_TIMEOUT", Message: "LLM request timeout"}
	ErrNarrativeInvalid = &Error{Code: "NARRATIVE_INVALID", Message: "narrative response could not be parsed"}
)
