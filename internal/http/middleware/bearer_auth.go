package middleware

import (
	"crypto/hmac"
	"net/http"
	"strings"
)

// BearerAuth enforces the static pre-shared webhook credential. The
// credential normally arrives as "Authorization: Bearer <secret>"; the
// telephony provider cannot set headers on callback URLs it fetches, so
// an access_token query parameter is accepted as an equivalent carrier.
// Requests with a missing or mismatched credential are rejected before
// any downstream component runs.
func BearerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "webhook auth disabled", http.StatusUnauthorized)
				return
			}

			presented := ""
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				presented = strings.TrimPrefix(auth, "Bearer ")
			} else if token := r.URL.Query().Get("access_token"); token != "" {
				presented = token
			}

			if presented == "" || !hmac.Equal([]byte(presented), []byte(secret)) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
