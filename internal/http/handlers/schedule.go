package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sohamn21/nektech-connect/internal/calls"
	"github.com/sohamn21/nektech-connect/internal/messaging"
	"github.com/sohamn21/nektech-connect/internal/notify"
	"github.com/sohamn21/nektech-connect/internal/observability/metrics"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// scheduleStore is the call store surface the scheduling endpoint needs.
type scheduleStore interface {
	Insert(ctx context.Context, rec calls.CallRecord) (uuid.UUID, error)
	MarkInProgress(ctx context.Context, id uuid.UUID, providerCallSID string) error
	MarkError(ctx context.Context, id uuid.UUID, errText string) error
}

// ScheduleRequest is the JSON body of the call scheduling trigger.
type ScheduleRequest struct {
	Recipient     string `json:"recipient"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
	Topic         string `json:"topic"`
	UserID        string `json:"userId"`
}

// ScheduleHandler accepts training call requests, records them, and asks
// the dialer to place the call.
type ScheduleHandler struct {
	store         scheduleStore
	dialer        calls.Dialer
	alerts        *notify.AlertService
	metrics       *metrics.GatewayMetrics
	logger        *logging.Logger
	publicBaseURL string
	webhookSecret string
}

// ScheduleHandlerConfig configures the ScheduleHandler.
type ScheduleHandlerConfig struct {
	Store   scheduleStore
	Dialer  calls.Dialer
	Alerts  *notify.AlertService
	Metrics *metrics.GatewayMetrics
	Logger  *logging.Logger
	// PublicBaseURL is the externally reachable base of this service; the
	// provider fetches the call script and posts status callbacks there.
	PublicBaseURL string
	// WebhookSecret is appended as access_token so provider-fetched URLs
	// pass bearer auth.
	WebhookSecret string
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(cfg ScheduleHandlerConfig) *ScheduleHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &ScheduleHandler{
		store:         cfg.Store,
		dialer:        cfg.Dialer,
		alerts:        cfg.Alerts,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		webhookSecret: cfg.WebhookSecret,
	}
}

// HandleSchedule is the HTTP handler for POST /api/calls/schedule.
//
// The response is deliberately optimistic: once the request validates, the
// caller gets success even when the provider rejects the dial. The failure
// lands on the call record and in an operator alert instead, so the
// requesting channel (often an SMS flow) never shows the entrepreneur a
// raw provider error.
func (h *ScheduleHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, triggerResponse{Message: "invalid request body"})
		return
	}

	recipient := messaging.NormalizeE164(req.Recipient)
	if recipient == "" {
		writeJSON(w, http.StatusBadRequest, triggerResponse{Message: "recipient is required"})
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		writeJSON(w, http.StatusBadRequest, triggerResponse{Message: "topic is required"})
		return
	}

	scheduledAt := parseSchedule(req.ScheduledDate, req.ScheduledTime)

	id, err := h.store.Insert(r.Context(), calls.CallRecord{
		Recipient:   recipient,
		ScheduledAt: scheduledAt,
		Topic:       topic,
		UserID:      strings.TrimSpace(req.UserID),
	})
	if err != nil {
		h.logger.Error("schedule: failed to persist call", "error", err)
		writeJSON(w, http.StatusInternalServerError, triggerResponse{Message: "failed to schedule call"})
		return
	}

	sid, dialErr := h.dialer.Dial(r.Context(), calls.DialRequest{
		To:                recipient,
		TwiMLURL:          h.callbackURL("/webhooks/voice/outbound", id),
		StatusCallbackURL: h.callbackURL("/webhooks/voice/status", id),
	})
	if dialErr != nil {
		h.logger.Error("schedule: dial rejected", "error", dialErr, "call_id", id)
		if err := h.store.MarkError(r.Context(), id, dialErr.Error()); err != nil {
			h.logger.Error("schedule: failed to record dial error", "error", err, "call_id", id)
		}
		h.alerts.DispatchFailed(r.Context(), "call", recipient, dialErr.Error())
		h.metrics.ObserveOutbound("call", calls.StatusError)
	} else {
		if err := h.store.MarkInProgress(r.Context(), id, sid); err != nil {
			h.logger.Error("schedule: failed to mark in progress", "error", err, "call_id", id)
		}
		h.metrics.ObserveOutbound("call", calls.StatusInProgress)
	}

	writeJSON(w, http.StatusOK, triggerResponse{
		Success: true,
		Message: fmt.Sprintf("Training call about %s scheduled", topic),
		CallID:  id.String(),
	})
}

// callbackURL builds a provider-facing URL carrying the record id and the
// webhook access token.
func (h *ScheduleHandler) callbackURL(path string, id uuid.UUID) string {
	q := url.Values{}
	q.Set("call_id", id.String())
	if h.webhookSecret != "" {
		q.Set("access_token", h.webhookSecret)
	}
	return h.publicBaseURL + path + "?" + q.Encode()
}

// parseSchedule combines the optional date and time fields, defaulting to
// now when either is absent or malformed.
func parseSchedule(date, clock string) time.Time {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Now().UTC()
	}
	if clock == "" {
		clock = "00:00"
	}
	at, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Now().UTC()
	}
	return at
}
