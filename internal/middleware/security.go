package middleware

import (
	"net/http"
)

// SecurityHeadersMiddleware sets the response headers every endpoint
// carries. The relay answers browsers directly: JSON from the feedback
// endpoint and script/style files under /assets/ must never be sniffed
// into another content type, and none of the endpoints render anything
// worth framing.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")

			next.ServeHTTP(w, r)
		})
	}
}
