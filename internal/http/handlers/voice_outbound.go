package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sohamn21/nektech-connect/internal/calls"
	"github.com/sohamn21/nektech-connect/internal/channel"
	"github.com/sohamn21/nektech-connect/internal/content"
	"github.com/sohamn21/nektech-connect/internal/intent"
	"github.com/sohamn21/nektech-connect/internal/locale"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// callReader fetches scheduled call records.
type callReader interface {
	Get(ctx context.Context, id uuid.UUID) (calls.CallRecord, error)
}

// OutboundVoiceHandler serves the voice document for outbound training
// calls. The provider fetches it when the scheduled call connects.
type OutboundVoiceHandler struct {
	store   callReader
	content *content.Service
	logger  *logging.Logger
}

// NewOutboundVoiceHandler creates a new OutboundVoiceHandler.
func NewOutboundVoiceHandler(store callReader, svc *content.Service, logger *logging.Logger) *OutboundVoiceHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &OutboundVoiceHandler{store: store, content: svc, logger: logger}
}

// HandleContent is the HTTP handler for /webhooks/voice/outbound. It looks
// up the scheduled call, generates training tips for its topic, and
// returns them as a terminal voice prompt.
func (h *OutboundVoiceHandler) HandleContent(w http.ResponseWriter, r *http.Request) {
	callID, err := uuid.Parse(r.URL.Query().Get("call_id"))
	if err != nil {
		http.Error(w, "missing or invalid call_id", http.StatusBadRequest)
		return
	}

	rec, err := h.store.Get(r.Context(), callID)
	if err != nil {
		h.logger.Error("outbound voice: call record not found", "error", err, "call_id", callID)
		http.Error(w, "call not found", http.StatusNotFound)
		return
	}

	// Tips is total; generation failures degrade to the static tip set.
	tips := h.content.Tips(r.Context(), rec.Topic, locale.LangEnglish)

	payload, contentType := channel.Render(channel.Telephony, intent.Reply{
		Text:     tips,
		Terminal: true,
	}, channel.TelephonyOptions{Language: locale.LangEnglish})

	h.logger.Info("outbound voice content served", "call_id", callID, "topic", rec.Topic)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
