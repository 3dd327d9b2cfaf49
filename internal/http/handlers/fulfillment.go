package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sohamn21/nektech-connect/internal/channel"
	"github.com/sohamn21/nektech-connect/internal/events"
	"github.com/sohamn21/nektech-connect/internal/intent"
	"github.com/sohamn21/nektech-connect/internal/locale"
	"github.com/sohamn21/nektech-connect/internal/messaging"
	"github.com/sohamn21/nektech-connect/internal/observability/metrics"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

var fulfillmentTracer = otel.Tracer("nekconnect.internal.handlers.fulfillment")

// WebhookRequest is the intent-classification event posted by the
// upstream agent.
type WebhookRequest struct {
	QueryResult struct {
		Intent struct {
			DisplayName string `json:"displayName"`
		} `json:"intent"`
		Parameters struct {
			Language    string `json:"language"`
			PhoneNumber string `json:"phone_number"`
		} `json:"parameters"`
		QueryText string `json:"queryText"`
	} `json:"queryResult"`
	OriginalDetectIntentRequest struct {
		Source string `json:"source"`
	} `json:"originalDetectIntentRequest"`
}

// interactionRecorder appends interaction events off the response path.
type interactionRecorder interface {
	Record(event events.InteractionEvent)
}

// FulfillmentHandler is the webhook gateway for classified intent events.
type FulfillmentHandler struct {
	recorder       interactionRecorder
	metrics        *metrics.GatewayMetrics
	logger         *logging.Logger
	voiceActionURL string
}

// FulfillmentHandlerConfig configures the FulfillmentHandler.
type FulfillmentHandlerConfig struct {
	Recorder interactionRecorder
	Metrics  *metrics.GatewayMetrics
	Logger   *logging.Logger
	// VoiceActionURL is where telephony gather directives post digits.
	VoiceActionURL string
}

// NewFulfillmentHandler creates a new FulfillmentHandler.
func NewFulfillmentHandler(cfg FulfillmentHandlerConfig) *FulfillmentHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &FulfillmentHandler{
		recorder:       cfg.Recorder,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		voiceActionURL: cfg.VoiceActionURL,
	}
}

// HandleFulfillment is the HTTP handler for POST /webhooks/fulfillment.
// It resolves the classified intent to localized text, renders it for the
// calling channel, and logs the interaction without blocking the
// response.
func (h *FulfillmentHandler) HandleFulfillment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	_, span := fulfillmentTracer.Start(r.Context(), "gateway.fulfillment")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Error("fulfillment: failed to read body", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Error("fulfillment: failed to parse event", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	intentName := strings.TrimSpace(req.QueryResult.Intent.DisplayName)
	language := strings.TrimSpace(req.QueryResult.Parameters.Language)
	if !locale.Supported(language) {
		language = locale.LangEnglish
	}
	source := events.FromProvider(req.OriginalDetectIntentRequest.Source)
	ch := channel.ForSource(source)

	span.SetAttributes(
		attribute.String("nekconnect.intent", intentName),
		attribute.String("nekconnect.language", language),
		attribute.String("nekconnect.channel", string(ch)),
	)

	event := events.InteractionEvent{
		Source:     source,
		IntentName: intentName,
		UserInput:  req.QueryResult.QueryText,
		Language:   language,
		CallerID:   messaging.NormalizeE164(req.QueryResult.Parameters.PhoneNumber),
		CreatedAt:  time.Now().UTC(),
	}

	reply := intent.Resolve(event)

	// Fire-and-forget: the rendered response never waits on logging.
	if h.recorder != nil {
		h.recorder.Record(event)
	}

	payload, contentType := channel.Render(ch, reply, channel.TelephonyOptions{
		ActionURL: h.voiceActionURL,
		Language:  language,
	})

	h.metrics.ObserveFulfillment(intentName, string(ch))
	h.metrics.ObserveWebhookLatency("fulfillment", time.Since(start).Seconds())

	h.logger.Info("fulfillment handled",
		"intent", intentName,
		"language", language,
		"channel", string(ch),
	)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
