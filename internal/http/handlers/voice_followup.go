package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/sohamn21/nektech-connect/internal/channel"
	"github.com/sohamn21/nektech-connect/internal/events"
	"github.com/sohamn21/nektech-connect/internal/intent"
	"github.com/sohamn21/nektech-connect/internal/locale"
	"github.com/sohamn21/nektech-connect/internal/messaging"
	"github.com/sohamn21/nektech-connect/internal/observability/metrics"
	"github.com/sohamn21/nektech-connect/internal/voice"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// languageDigits maps the welcome menu's digits to languages.
var languageDigits = map[string]string{
	"1": locale.LangEnglish,
	"2": locale.LangHindi,
	"3": locale.LangMarathi,
}

// menuDigits maps the options menu's digits to intents. 9 hangs up.
var menuDigits = map[string]string{
	"1": intent.IntentProductInfo,
	"2": intent.IntentTraining,
	"3": intent.IntentMarketplace,
	"9": intent.IntentGoodbye,
}

// VoiceHandler drives the inbound IVR flow: the first gathered digit
// selects the caller's language, later digits navigate the options menu.
type VoiceHandler struct {
	sessions           *voice.SessionStore
	recorder           interactionRecorder
	metrics            *metrics.GatewayMetrics
	logger             *logging.Logger
	actionURL          string
	authToken          string
	validateSignatures bool
}

// VoiceHandlerConfig configures the VoiceHandler.
type VoiceHandlerConfig struct {
	Sessions *voice.SessionStore
	Recorder interactionRecorder
	Metrics  *metrics.GatewayMetrics
	Logger   *logging.Logger
	// ActionURL is this endpoint's own public URL; gather directives post
	// the next digit back to it.
	ActionURL string
	// AuthToken signs provider webhooks. Signature checks are skipped when
	// ValidateSignatures is false (local development).
	AuthToken          string
	ValidateSignatures bool
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(cfg VoiceHandlerConfig) *VoiceHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &VoiceHandler{
		sessions:           cfg.Sessions,
		recorder:           cfg.Recorder,
		metrics:            cfg.Metrics,
		logger:             cfg.Logger,
		actionURL:          cfg.ActionURL,
		authToken:          cfg.AuthToken,
		validateSignatures: cfg.ValidateSignatures,
	}
}

// HandleDigits is the HTTP handler for POST /webhooks/voice. The provider
// posts the gathered digit here after every prompt.
func (h *VoiceHandler) HandleDigits(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.validateSignatures && !messaging.VerifyProviderSignature(r, h.authToken, h.actionURL) {
		h.logger.Warn("voice: rejected request with invalid provider signature")
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	callSID := strings.TrimSpace(r.PostFormValue("CallSid"))
	if callSID == "" {
		http.Error(w, "missing CallSid", http.StatusBadRequest)
		return
	}
	digits := strings.TrimSpace(r.PostFormValue("Digits"))
	caller := messaging.NormalizeE164(r.PostFormValue("From"))

	language, err := h.sessions.Language(r.Context(), callSID)
	if err != nil {
		h.logger.Warn("voice: session lookup failed, treating as new call", "error", err, "call_sid", callSID)
		language = ""
	}

	var intentName string
	if language == "" {
		// First gather of the call: the digit picks the language, then we
		// read the options menu in it.
		selected, ok := languageDigits[digits]
		if !ok {
			selected = locale.LangEnglish
		}
		if err := h.sessions.SetLanguage(r.Context(), callSID, selected); err != nil {
			h.logger.Warn("voice: failed to store language selection", "error", err, "call_sid", callSID)
		}
		language = selected
		intentName = intent.IntentOptions
	} else {
		// Unknown digits leave intentName empty; Resolve then serves the
		// localized fallback prompt.
		intentName = menuDigits[digits]
	}

	event := events.InteractionEvent{
		Source:     events.SourceTelephony,
		IntentName: intentName,
		UserInput:  digits,
		Language:   language,
		CallerID:   caller,
		CreatedAt:  time.Now().UTC(),
	}
	reply := intent.Resolve(event)
	if !reply.Terminal && !reply.GatherInput {
		// Informational prompts return the caller to the menu.
		reply.GatherInput = true
	}

	if h.recorder != nil {
		h.recorder.Record(event)
	}
	if reply.Terminal {
		if err := h.sessions.Clear(r.Context(), callSID); err != nil {
			h.logger.Warn("voice: failed to clear session", "error", err, "call_sid", callSID)
		}
	}

	payload, contentType := channel.Render(channel.Telephony, reply, channel.TelephonyOptions{
		ActionURL: h.actionURL,
		Language:  language,
	})

	h.metrics.ObserveFulfillment(intentName, string(channel.Telephony))
	h.metrics.ObserveWebhookLatency("voice", time.Since(start).Seconds())

	h.logger.Info("voice digits handled",
		"call_sid", callSID,
		"digits", digits,
		"intent", intentName,
		"language", language,
	)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
