package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sohamn21/nektech-connect/internal/events"
)

type recorderSpy struct {
	mu     sync.Mutex
	events []events.InteractionEvent
}

func (r *recorderSpy) Record(event events.InteractionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderSpy) waitForEvents(t *testing.T, n int) []events.InteractionEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		if len(r.events) >= n {
			out := append([]events.InteractionEvent(nil), r.events...)
			r.mu.Unlock()
			return out
		}
		r.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("recorded %d events, want %d", len(r.events), n)
	return nil
}

func fulfillmentBody(intent, language, source, queryText string) string {
	return fmt.Sprintf(`{
		"queryResult": {
			"intent": {"displayName": %q},
			"parameters": {"language": %q, "phone_number": "+919876543210"},
			"queryText": %q
		},
		"originalDetectIntentRequest": {"source": %q}
	}`, intent, language, queryText, source)
}

func TestHandleFulfillmentTelephonyHindi(t *testing.T) {
	spy := &recorderSpy{}
	h := NewFulfillmentHandler(FulfillmentHandlerConfig{
		Recorder:       spy,
		VoiceActionURL: "https://connect.example.org/webhooks/voice",
	})

	req := httptest.NewRequest("POST", "/webhooks/fulfillment",
		strings.NewReader(fulfillmentBody("Welcome", "hi", "GOOGLE_TELEPHONY", "hello")))
	rec := httptest.NewRecorder()
	h.HandleFulfillment(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("content type = %q, want application/xml", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `language="hi-IN"`) {
		t.Errorf("expected Hindi voice locale: %s", body)
	}
	if !strings.Contains(body, "<Gather") {
		t.Errorf("Welcome must gather input: %s", body)
	}
	if strings.Contains(body, "<Hangup") {
		t.Errorf("Welcome must not hang up: %s", body)
	}

	logged := spy.waitForEvents(t, 1)
	if logged[0].Source != events.SourceTelephony {
		t.Errorf("source = %q", logged[0].Source)
	}
	if logged[0].IntentName != "Welcome" || logged[0].Language != "hi" {
		t.Errorf("event = %+v", logged[0])
	}
	if logged[0].UserInput != "hello" {
		t.Errorf("user input = %q", logged[0].UserInput)
	}
}

func TestHandleFulfillmentChatJSON(t *testing.T) {
	spy := &recorderSpy{}
	h := NewFulfillmentHandler(FulfillmentHandlerConfig{Recorder: spy})

	req := httptest.NewRequest("POST", "/webhooks/fulfillment",
		strings.NewReader(fulfillmentBody("Training", "mr", "whatsapp", "training please")))
	rec := httptest.NewRecorder()
	h.HandleFulfillment(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
	var resp struct {
		FulfillmentText string `json:"fulfillmentText"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.FulfillmentText == "" {
		t.Error("empty fulfillmentText")
	}
}

func TestHandleFulfillmentUnknownLanguageDefaultsToEnglish(t *testing.T) {
	spy := &recorderSpy{}
	h := NewFulfillmentHandler(FulfillmentHandlerConfig{Recorder: spy})

	req := httptest.NewRequest("POST", "/webhooks/fulfillment",
		strings.NewReader(fulfillmentBody("Goodbye", "de", "telephony", "bye")))
	rec := httptest.NewRecorder()
	h.HandleFulfillment(rec, req)

	if !strings.Contains(rec.Body.String(), `language="en-IN"`) {
		t.Errorf("unsupported language must render as English: %s", rec.Body.String())
	}
	logged := spy.waitForEvents(t, 1)
	if logged[0].Language != "en" {
		t.Errorf("logged language = %q, want en", logged[0].Language)
	}
}

func TestHandleFulfillmentUnknownIntentFallback(t *testing.T) {
	h := NewFulfillmentHandler(FulfillmentHandlerConfig{})

	req := httptest.NewRequest("POST", "/webhooks/fulfillment",
		strings.NewReader(fulfillmentBody("OrderPizza", "en", "whatsapp", "pizza")))
	rec := httptest.NewRecorder()
	h.HandleFulfillment(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, unknown intents still fulfill", rec.Code)
	}
	var resp struct {
		FulfillmentText string `json:"fulfillmentText"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !strings.Contains(resp.FulfillmentText, "did not understand") {
		t.Errorf("expected fallback text, got %q", resp.FulfillmentText)
	}
}

func TestHandleFulfillmentMalformedJSON(t *testing.T) {
	h := NewFulfillmentHandler(FulfillmentHandlerConfig{})

	req := httptest.NewRequest("POST", "/webhooks/fulfillment", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleFulfillment(rec, req)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
