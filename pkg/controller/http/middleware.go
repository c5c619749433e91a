package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// tokenAuth rejects requests that do not carry the expected bearer token
func tokenAuth(token string) func(http.Handler) http.Handler {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || got == "" {
				writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "Invalid authentication token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
