package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"qatrack/internal/httputil"
)

// RequestID tags each request with an ID for log correlation. An incoming
// X-Request-ID header is honored so IDs survive proxies.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, httputil.WithRequestID(r, requestID))
	})
}
