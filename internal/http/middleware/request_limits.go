package middleware

import (
	"net/http"
)

// RequestSizeLimit caps request bodies at maxBytes. Reads past the cap fail with
// *http.MaxBytesError, which httputil.DecodeJSON reports as 413.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
