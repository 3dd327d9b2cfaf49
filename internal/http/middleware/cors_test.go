package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsChain(origins []string) http.Handler {
	// Auth behind CORS, as in the real router.
	return CORS(origins)(BearerAuth("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
}

func TestCORSPreflightShortCircuitsBeforeAuth(t *testing.T) {
	h := corsChain([]string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/webhooks/fulfillment", nil)
	req.Header.Set("Origin", "https://dashboard.example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// No credential on the preflight, yet it must not 401.
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestCORSAllowlist(t *testing.T) {
	h := corsChain([]string{"https://dashboard.example.org"})

	req := httptest.NewRequest("POST", "/webhooks/fulfillment", nil)
	req.Header.Set("Origin", "https://dashboard.example.org")
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.org" {
		t.Errorf("allow-origin = %q", got)
	}

	req = httptest.NewRequest("POST", "/webhooks/fulfillment", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got allow-origin %q", got)
	}
}
