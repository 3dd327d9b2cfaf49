package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sohamn21/nektech-connect/internal/calls"
	"github.com/sohamn21/nektech-connect/internal/content"
)

type callReaderStub struct {
	rec calls.CallRecord
	err error
}

func (s *callReaderStub) Get(_ context.Context, id uuid.UUID) (calls.CallRecord, error) {
	if s.err != nil {
		return calls.CallRecord{}, s.err
	}
	rec := s.rec
	rec.ID = id
	return rec, nil
}

func TestHandleContentSpeaksTipsAndHangsUp(t *testing.T) {
	store := &callReaderStub{rec: calls.CallRecord{Topic: "pricing", Status: "in_progress"}}
	h := NewOutboundVoiceHandler(store, content.NewService(nil, nil), nil)

	req := httptest.NewRequest("GET", "/webhooks/voice/outbound?call_id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	h.HandleContent(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "pricing") {
		t.Errorf("tips should mention the topic: %s", body)
	}
	if !strings.Contains(body, "<Hangup") {
		t.Errorf("outbound call script must end with hangup: %s", body)
	}
	if strings.Contains(body, "<Gather") {
		t.Errorf("outbound call script must not gather: %s", body)
	}
}

func TestHandleContentInvalidCallID(t *testing.T) {
	h := NewOutboundVoiceHandler(&callReaderStub{}, content.NewService(nil, nil), nil)

	req := httptest.NewRequest("GET", "/webhooks/voice/outbound?call_id=nope", nil)
	rec := httptest.NewRecorder()
	h.HandleContent(rec, req)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleContentUnknownCall(t *testing.T) {
	h := NewOutboundVoiceHandler(&callReaderStub{err: errors.New("no rows")}, content.NewService(nil, nil), nil)

	req := httptest.NewRequest("GET", "/webhooks/voice/outbound?call_id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	h.HandleContent(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
