package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sohamn21/nektech-connect/internal/calls"
	"github.com/sohamn21/nektech-connect/internal/messaging"
	"github.com/sohamn21/nektech-connect/internal/observability/metrics"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// callCallbackStore applies call lifecycle callbacks.
type callCallbackStore interface {
	ApplyCallback(ctx context.Context, id uuid.UUID, status string, durationSeconds int) error
}

// messageCallbackStore applies message delivery callbacks.
type messageCallbackStore interface {
	UpdateStatusBySID(ctx context.Context, providerSID, status string) error
}

// StatusCallbackHandler receives the provider's call and message status
// callbacks and folds them into the lifecycle records.
type StatusCallbackHandler struct {
	callStore          callCallbackStore
	messageStore       messageCallbackStore
	metrics            *metrics.GatewayMetrics
	logger             *logging.Logger
	publicBaseURL      string
	authToken          string
	validateSignatures bool
}

// StatusCallbackHandlerConfig configures the StatusCallbackHandler.
type StatusCallbackHandlerConfig struct {
	CallStore    callCallbackStore
	MessageStore messageCallbackStore
	Metrics      *metrics.GatewayMetrics
	Logger       *logging.Logger
	// PublicBaseURL reconstructs the exact URL the provider signed; the
	// callback URLs vary per call so the signed URL is rebuilt from the
	// request rather than configured verbatim.
	PublicBaseURL string
	// AuthToken signs provider webhooks. Signature checks are skipped
	// when ValidateSignatures is false (local development).
	AuthToken          string
	ValidateSignatures bool
}

// NewStatusCallbackHandler creates a new StatusCallbackHandler.
func NewStatusCallbackHandler(cfg StatusCallbackHandlerConfig) *StatusCallbackHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &StatusCallbackHandler{
		callStore:          cfg.CallStore,
		messageStore:       cfg.MessageStore,
		metrics:            cfg.Metrics,
		logger:             cfg.Logger,
		publicBaseURL:      strings.TrimRight(cfg.PublicBaseURL, "/"),
		authToken:          cfg.AuthToken,
		validateSignatures: cfg.ValidateSignatures,
	}
}

// verifySignature checks the provider signature against the full URL the
// provider posted to, query string included.
func (h *StatusCallbackHandler) verifySignature(r *http.Request) bool {
	if !h.validateSignatures {
		return true
	}
	return messaging.VerifyProviderSignature(r, h.authToken, h.publicBaseURL+r.URL.RequestURI())
}

// HandleCallStatus is the HTTP handler for POST /webhooks/voice/status.
// The record id rides in the call_id query parameter because the provider
// echoes the callback URL verbatim.
func (h *StatusCallbackHandler) HandleCallStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !h.verifySignature(r) {
		h.logger.Warn("call status: rejected request with invalid provider signature")
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	callID, err := uuid.Parse(r.URL.Query().Get("call_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing or invalid call_id"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed form body"})
		return
	}

	providerStatus := r.PostFormValue("CallStatus")
	status := calls.MapProviderStatus(providerStatus)
	duration, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("CallDuration")))

	if err := h.callStore.ApplyCallback(r.Context(), callID, status, duration); err != nil {
		h.logger.Error("call status callback failed", "error", err, "call_id", callID, "status", status)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record status"})
		return
	}

	h.metrics.ObserveOutbound("call", status)
	h.metrics.ObserveWebhookLatency("voice_status", time.Since(start).Seconds())
	h.logger.Info("call status recorded",
		"call_id", callID,
		"provider_status", providerStatus,
		"status", status,
		"duration_seconds", duration,
	)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleMessageStatus is the HTTP handler for POST /webhooks/message/status.
// Message callbacks are keyed by the provider sid rather than the record
// id, matching how the provider reports message delivery.
func (h *StatusCallbackHandler) HandleMessageStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !h.verifySignature(r) {
		h.logger.Warn("message status: rejected request with invalid provider signature")
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed form body"})
		return
	}
	sid := strings.TrimSpace(r.PostFormValue("MessageSid"))
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing MessageSid"})
		return
	}

	providerStatus := r.PostFormValue("MessageStatus")
	status := messaging.MapProviderStatus(providerStatus)

	if err := h.messageStore.UpdateStatusBySID(r.Context(), sid, status); err != nil {
		h.logger.Error("message status callback failed", "error", err, "provider_sid", sid, "status", status)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record status"})
		return
	}

	h.metrics.ObserveOutbound("message", status)
	h.metrics.ObserveWebhookLatency("message_status", time.Since(start).Seconds())
	h.logger.Info("message status recorded", "provider_sid", sid, "provider_status", providerStatus, "status", status)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
