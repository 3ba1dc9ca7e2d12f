package middleware

import (
	"net/http"
)

// CORSMiddleware allows cross-origin calls from anywhere: the feedback
// widget posts straight from the browser on arbitrary sites. The header
// is set on every response regardless of outcome.
func CORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			// Process request
			next.ServeHTTP(w, r)
		})
	}
}
