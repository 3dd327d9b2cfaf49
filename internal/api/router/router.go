// Package router assembles the HTTP surface: public health and metrics,
// secret-protected webhook and trigger endpoints, and the JWT-protected
// admin read surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sohamn21/nektech-connect/internal/http/handlers"
	"github.com/sohamn21/nektech-connect/internal/http/middleware"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// Config collects everything the router mounts.
type Config struct {
	Logger *logging.Logger

	Fulfillment   *handlers.FulfillmentHandler
	Voice         *handlers.VoiceHandler
	OutboundVoice *handlers.OutboundVoiceHandler
	Status        *handlers.StatusCallbackHandler
	Schedule      *handlers.ScheduleHandler
	Send          *handlers.SendHandler
	Admin         *handlers.AdminHandler

	// WebhookSecret gates the webhook and trigger routes.
	WebhookSecret string
	// AdminJWTSecret gates the admin read surface.
	AdminJWTSecret string

	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int

	// MetricsGatherer backs GET /metrics. Nil falls back to the default
	// prometheus gatherer.
	MetricsGatherer prometheus.Gatherer
}

// New builds the chi router with the full middleware stack.
func New(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.RequestLogger(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	gatherer := cfg.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Provider webhooks and dispatch triggers share the bearer secret.
	// Provider-fetched URLs carry it as access_token instead of a header.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		r.Use(middleware.BearerAuth(cfg.WebhookSecret))

		r.Post("/webhooks/fulfillment", cfg.Fulfillment.HandleFulfillment)
		r.Post("/webhooks/voice", cfg.Voice.HandleDigits)
		r.Get("/webhooks/voice/outbound", cfg.OutboundVoice.HandleContent)
		r.Post("/webhooks/voice/outbound", cfg.OutboundVoice.HandleContent)
		r.Post("/webhooks/voice/status", cfg.Status.HandleCallStatus)
		r.Post("/webhooks/message/status", cfg.Status.HandleMessageStatus)

		r.Post("/api/calls/schedule", cfg.Schedule.HandleSchedule)
		r.Post("/api/messages/send", cfg.Send.HandleSend)
		r.Get("/api/messages/{id}", cfg.Send.HandleGetMessage)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminJWT(cfg.AdminJWTSecret))

		r.Get("/admin/interactions", cfg.Admin.ListInteractions)
		r.Get("/admin/calls", cfg.Admin.ListCalls)
		r.Get("/admin/messages", cfg.Admin.ListMessages)
	})

	return r
}
