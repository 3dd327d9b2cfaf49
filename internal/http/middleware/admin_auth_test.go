package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func adminToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func adminProtected(secret string) http.Handler {
	return AdminJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaimsFromContext(r.Context())
		if !ok || claims.Subject != "operator" {
			http.Error(w, "claims missing", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminJWTValidToken(t *testing.T) {
	h := adminProtected("jwt-secret")

	req := httptest.NewRequest("GET", "/admin/calls", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "jwt-secret", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminJWTRejections(t *testing.T) {
	h := adminProtected("jwt-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"wrong secret", adminToken(t, "other-secret", time.Now().Add(time.Hour))},
		{"expired", adminToken(t, "jwt-secret", time.Now().Add(-time.Hour))},
		{"garbage", "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/calls", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != 401 {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAdminJWTDisabledWithoutSecret(t *testing.T) {
	h := adminProtected("")

	req := httptest.NewRequest("GET", "/admin/calls", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 401 {
		t.Errorf("status = %d, admin surface must fail closed without a secret", rec.Code)
	}
}
