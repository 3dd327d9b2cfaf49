package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sohamn21/nektech-connect/internal/content"
	"github.com/sohamn21/nektech-connect/internal/locale"
	"github.com/sohamn21/nektech-connect/internal/messaging"
	"github.com/sohamn21/nektech-connect/internal/notify"
	"github.com/sohamn21/nektech-connect/internal/observability/metrics"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// sendStore is the message store surface the dispatch endpoints need.
type sendStore interface {
	Insert(ctx context.Context, rec messaging.MessageRecord) (uuid.UUID, error)
	MarkSent(ctx context.Context, id uuid.UUID, providerSID string) error
	MarkError(ctx context.Context, id uuid.UUID, errText string) error
	Get(ctx context.Context, id uuid.UUID) (messaging.MessageRecord, error)
}

// SendRequest is the JSON body of the message dispatch trigger. Content is
// optional; when absent the body is generated from the topic.
type SendRequest struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Topic     string `json:"topic"`
	UserID    string `json:"userId"`
}

// SendHandler accepts WhatsApp dispatch requests, records them, and sends
// them through the provider.
type SendHandler struct {
	store   sendStore
	sender  messaging.Sender
	content *content.Service
	alerts  *notify.AlertService
	metrics *metrics.GatewayMetrics
	logger  *logging.Logger
}

// SendHandlerConfig configures the SendHandler.
type SendHandlerConfig struct {
	Store   sendStore
	Sender  messaging.Sender
	Content *content.Service
	Alerts  *notify.AlertService
	Metrics *metrics.GatewayMetrics
	Logger  *logging.Logger
}

// NewSendHandler creates a new SendHandler.
func NewSendHandler(cfg SendHandlerConfig) *SendHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &SendHandler{
		store:   cfg.Store,
		sender:  cfg.Sender,
		content: cfg.Content,
		alerts:  cfg.Alerts,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// HandleSend is the HTTP handler for POST /api/messages/send. Unlike call
// scheduling, a provider rejection here is propagated to the caller: the
// requester is an operator-facing surface that can retry, not an
// entrepreneur mid-conversation.
func (h *SendHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
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
	body := strings.TrimSpace(req.Content)
	if body == "" {
		if topic == "" {
			writeJSON(w, http.StatusBadRequest, triggerResponse{Message: "content or topic is required"})
			return
		}
		body = h.content.Tips(r.Context(), topic, locale.LangEnglish)
	}

	id, err := h.store.Insert(r.Context(), messaging.MessageRecord{
		Recipient: recipient,
		Topic:     topic,
		Body:      body,
		UserID:    strings.TrimSpace(req.UserID),
	})
	if err != nil {
		h.logger.Error("send: failed to persist message", "error", err)
		writeJSON(w, http.StatusInternalServerError, triggerResponse{Message: "failed to record message"})
		return
	}

	result, sendErr := h.sender.Send(r.Context(), messaging.OutboundMessage{
		To:    recipient,
		Body:  body,
		Topic: topic,
	})
	if sendErr != nil {
		h.logger.Error("send: dispatch rejected", "error", sendErr, "message_id", id)
		if err := h.store.MarkError(r.Context(), id, sendErr.Error()); err != nil {
			h.logger.Error("send: failed to record dispatch error", "error", err, "message_id", id)
		}
		h.alerts.DispatchFailed(r.Context(), "message", recipient, sendErr.Error())
		h.metrics.ObserveOutbound("message", messaging.StatusError)
		writeJSON(w, http.StatusBadGateway, triggerResponse{
			Message:   "failed to send message",
			MessageID: id.String(),
		})
		return
	}

	if err := h.store.MarkSent(r.Context(), id, result.ProviderSID); err != nil {
		h.logger.Error("send: failed to mark sent", "error", err, "message_id", id)
	}
	h.metrics.ObserveOutbound("message", messaging.StatusSent)

	message := "Message sent"
	if topic != "" {
		message = fmt.Sprintf("Message about %s sent", topic)
	}
	writeJSON(w, http.StatusOK, triggerResponse{
		Success:   true,
		Message:   message,
		MessageID: id.String(),
	})
}

// messageDetail is the JSON shape of a single dispatch record. The body is
// omitted; it can hold personal conversation text.
type messageDetail struct {
	ID          string    `json:"id"`
	Recipient   string    `json:"recipient"`
	Topic       string    `json:"topic,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	Status      string    `json:"status"`
	ProviderSID string    `json:"providerSid,omitempty"`
	LastError   string    `json:"lastError,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HandleGetMessage is the HTTP handler for GET /api/messages/{id}. It lets
// the dispatching system poll a message it triggered for delivery state.
func (h *SendHandler) HandleGetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message id"})
		return
	}

	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "message not found"})
			return
		}
		h.logger.Error("send: failed to load message", "error", err, "message_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load message"})
		return
	}

	writeJSON(w, http.StatusOK, messageDetail{
		ID:          rec.ID.String(),
		Recipient:   rec.Recipient,
		Topic:       rec.Topic,
		UserID:      rec.UserID,
		Status:      rec.Status,
		ProviderSID: rec.ProviderSID,
		LastError:   rec.LastError,
		CreatedAt:   rec.CreatedAt,
	})
}
