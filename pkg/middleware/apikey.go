package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIKeyHeader is the header clients present the shared key in.
const APIKeyHeader = "X-API-Key"

// exemptPaths are reachable without a key so infrastructure probes keep
// working on locked-down deployments.
var exemptPaths = map[string]struct{}{
	"/health": {},
	"/ping":   {},
}

// APIKeyAuth returns middleware that requires every request to present the
// configured key in X-API-Key. An empty configured key disables the check
// entirely. Comparison is constant time.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, exempt := exemptPaths[r.URL.Path]; exempt {
				next.ServeHTTP(w, r)
				return
			}

			presented := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "unauthorized",
					"message": "missing or invalid API key",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
