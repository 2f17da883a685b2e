// internal/api/middleware/auth.go

// Package middleware holds the HTTP middleware guarding the API routes.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/scrylabs/scry/internal/api/response"
	"github.com/scrylabs/scry/internal/core"
)

// APIKeyHeader carries the client credential.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns middleware requiring the configured key in the
// X-API-Key header. An empty configured key disables the check; the
// handler is returned unwrapped.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if provided == "" {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrConfigMissing, nil))
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrConfigInvalid, nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
