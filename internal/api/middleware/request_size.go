package middleware

import (
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/api/problem"
)

// DefaultMaxBodySize bounds every JSON payload the API accepts.
const DefaultMaxBodySize int64 = 1 << 20

// RequestSize caps request bodies at maxBytes. Requests that declare a larger
// Content-Length are rejected up front; others fail when the handler reads
// past the limit.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Connection", "close")
				problem.Write(w, r, http.StatusRequestEntityTooLarge, problem.MsgBodyTooLarge, nil)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
