package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey keeps request-scoped values from colliding with other packages.
type contextKey string

// RequestIDKey is the context key under which the request id is stored.
const RequestIDKey contextKey = "request-id"

// RequestID tags every request with an id, honoring a caller-supplied
// X-Request-ID so upstream dashboards can correlate their calls.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
