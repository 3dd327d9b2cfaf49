package router

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sohamn21/nektech-connect/internal/calls"
	"github.com/sohamn21/nektech-connect/internal/content"
	"github.com/sohamn21/nektech-connect/internal/http/handlers"
	"github.com/sohamn21/nektech-connect/internal/messaging"
	"github.com/sohamn21/nektech-connect/internal/notify"
)

type callStoreStub struct{}

func (callStoreStub) Insert(context.Context, calls.CallRecord) (uuid.UUID, error) {
	return uuid.New(), nil
}
func (callStoreStub) MarkInProgress(context.Context, uuid.UUID, string) error { return nil }
func (callStoreStub) MarkError(context.Context, uuid.UUID, string) error      { return nil }
func (callStoreStub) ApplyCallback(context.Context, uuid.UUID, string, int) error {
	return nil
}
func (callStoreStub) Get(_ context.Context, id uuid.UUID) (calls.CallRecord, error) {
	return calls.CallRecord{ID: id, Topic: "pricing"}, nil
}

type messageStoreStub struct{}

func (messageStoreStub) Insert(context.Context, messaging.MessageRecord) (uuid.UUID, error) {
	return uuid.New(), nil
}
func (messageStoreStub) MarkSent(context.Context, uuid.UUID, string) error     { return nil }
func (messageStoreStub) MarkError(context.Context, uuid.UUID, string) error    { return nil }
func (messageStoreStub) UpdateStatusBySID(context.Context, string, string) error { return nil }
func (messageStoreStub) Get(_ context.Context, id uuid.UUID) (messaging.MessageRecord, error) {
	return messaging.MessageRecord{ID: id, Recipient: "+919876543210", Status: messaging.StatusSent}, nil
}

type dialerStub struct{}

func (dialerStub) Dial(context.Context, calls.DialRequest) (string, error) { return "CA1", nil }

type senderStub struct{}

func (senderStub) Send(context.Context, messaging.OutboundMessage) (messaging.SendResult, error) {
	return messaging.SendResult{ProviderSID: "SM1"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	alerts := notify.NewAlertService(nil, "", nil)
	tips := content.NewService(nil, nil)

	// The gather action URL the provider posts digits back to. It must
	// carry the webhook secret: the provider cannot set a bearer header.
	voiceURL := handlers.VoiceWebhookURL("https://connect.example.org", "hook-secret")

	return New(Config{
		Fulfillment: handlers.NewFulfillmentHandler(handlers.FulfillmentHandlerConfig{
			VoiceActionURL: voiceURL,
		}),
		Voice: handlers.NewVoiceHandler(handlers.VoiceHandlerConfig{
			ActionURL: voiceURL,
		}),
		OutboundVoice: handlers.NewOutboundVoiceHandler(callStoreStub{}, tips, nil),
		Status: handlers.NewStatusCallbackHandler(handlers.StatusCallbackHandlerConfig{
			CallStore:    callStoreStub{},
			MessageStore: messageStoreStub{},
		}),
		Schedule: handlers.NewScheduleHandler(handlers.ScheduleHandlerConfig{
			Store:         callStoreStub{},
			Dialer:        dialerStub{},
			Alerts:        alerts,
			PublicBaseURL: "https://connect.example.org",
			WebhookSecret: "hook-secret",
		}),
		Send: handlers.NewSendHandler(handlers.SendHandlerConfig{
			Store:   messageStoreStub{},
			Sender:  senderStub{},
			Content: tips,
			Alerts:  alerts,
		}),
		Admin:              handlers.NewAdminHandler(db, nil),
		WebhookSecret:      "hook-secret",
		AdminJWTSecret:     "jwt-secret",
		CORSAllowedOrigins: []string{"*"},
		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
		MetricsGatherer:    prometheus.NewRegistry(),
	})
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != 200 {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetricsIsPublic(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestWebhooksRequireCredential(t *testing.T) {
	r := newTestRouter(t)

	paths := []string{
		"/webhooks/fulfillment",
		"/webhooks/voice",
		"/webhooks/voice/status",
		"/webhooks/message/status",
		"/api/calls/schedule",
		"/api/messages/send",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", path, nil))
		if rec.Code != 401 {
			t.Errorf("POST %s without credential: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestWebhookAcceptsBearer(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("POST", "/webhooks/fulfillment", strings.NewReader(`{
		"queryResult": {"intent": {"displayName": "Welcome"}, "parameters": {"language": "en"}},
		"originalDetectIntentRequest": {"source": "whatsapp"}
	}`))
	req.Header.Set("Authorization", "Bearer hook-secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

// The full IVR round-trip: the welcome prompt's gather action URL must be
// usable by the provider as-is, with no bearer header available to it.
func TestGatherActionURLAcceptsFollowUpDigits(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("POST", "/webhooks/fulfillment", strings.NewReader(`{
		"queryResult": {"intent": {"displayName": "Welcome"}, "parameters": {"language": "en"}},
		"originalDetectIntentRequest": {"source": "GOOGLE_TELEPHONY"}
	}`))
	req.Header.Set("Authorization", "Bearer hook-secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("fulfillment status = %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	start := strings.Index(body, `action="`)
	if start < 0 {
		t.Fatalf("no gather action in TwiML: %s", body)
	}
	start += len(`action="`)
	end := strings.Index(body[start:], `"`)
	if end < 0 {
		t.Fatalf("unterminated action attribute: %s", body)
	}
	action, err := url.Parse(html.UnescapeString(body[start : start+end]))
	if err != nil {
		t.Fatalf("action URL: %v", err)
	}

	form := url.Values{}
	form.Set("CallSid", "CA900")
	form.Set("Digits", "1")
	req = httptest.NewRequest("POST", action.RequestURI(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// No Authorization header: the provider posts the gathered digit to the
	// action URL exactly as rendered.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("digit post status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "<Gather") {
		t.Errorf("options menu expected after language selection: %s", rec.Body.String())
	}
}

func TestMessageDetailRequiresCredential(t *testing.T) {
	r := newTestRouter(t)

	target := "/api/messages/" + uuid.NewString()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	if rec.Code != 401 {
		t.Errorf("without credential: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("Authorization", "Bearer hook-secret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("with credential: status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProviderFetchedURLAcceptsAccessToken(t *testing.T) {
	r := newTestRouter(t)

	target := "/webhooks/voice/outbound?call_id=" + uuid.NewString() + "&access_token=hook-secret"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	if rec.Code != 200 {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPreflightBypassesAuth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/webhooks/fulfillment", nil)
	req.Header.Set("Origin", "https://dashboard.example.org")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestAdminRequiresJWT(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/admin/interactions", "/admin/calls", "/admin/messages"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != 401 {
			t.Errorf("GET %s without token: status = %d, want 401", path, rec.Code)
		}
	}
}
