package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sohamn21/nektech-connect/internal/api/router"
	"github.com/sohamn21/nektech-connect/internal/calls"
	appconfig "github.com/sohamn21/nektech-connect/internal/config"
	"github.com/sohamn21/nektech-connect/internal/content"
	"github.com/sohamn21/nektech-connect/internal/events"
	"github.com/sohamn21/nektech-connect/internal/http/handlers"
	"github.com/sohamn21/nektech-connect/internal/messaging"
	"github.com/sohamn21/nektech-connect/internal/notify"
	"github.com/sohamn21/nektech-connect/internal/observability/metrics"
	"github.com/sohamn21/nektech-connect/internal/voice"
	"github.com/sohamn21/nektech-connect/pkg/logging"
)

func main() {
	// Load .env in development; ignore absence in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting nektech-connect API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Postgres: pgx pool for the lifecycle stores, database/sql for the
	// event log and admin listings.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open postgres connection", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis holds IVR session state. Optional; without it every voice
	// round-trip re-runs language selection.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, continuing without session store", "error", err)
			rdb = nil
		}
	}

	gatewayMetrics := metrics.NewGatewayMetrics(nil)

	eventStore := events.NewStore(db)
	recorder := events.NewRecorder(eventStore, logger.Component("events"))
	recorder.OnFailure(gatewayMetrics.ObserveLogFailure)

	callStore := calls.NewStore(pool)
	messageStore := messaging.NewStore(pool)
	sessions := voice.NewSessionStore(rdb)

	// Training tip generation. Without a key every tip request serves the
	// fixed fallback set.
	var generator content.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := content.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("gemini unavailable, using fallback tips", "error", err)
		} else {
			defer gemini.Close()
			generator = gemini
		}
	}
	contentSvc := content.NewService(generator, logger.Component("content"))

	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
	}, logger.Component("notify"))
	var sender notify.EmailSender
	if emailSender != nil {
		sender = emailSender
	}
	alerts := notify.NewAlertService(sender, cfg.AlertEmail, logger.Component("notify"))

	dialer := calls.NewTwilioDialer(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVoiceNumber, logger.Component("calls"))
	whatsapp := messaging.NewWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, logger.Component("messaging"))

	// Carries the webhook secret as access_token: the provider fetches
	// this URL itself and cannot present the bearer header.
	voiceActionURL := handlers.VoiceWebhookURL(cfg.PublicBaseURL, cfg.WebhookSecret)

	fulfillmentHandler := handlers.NewFulfillmentHandler(handlers.FulfillmentHandlerConfig{
		Recorder:       recorder,
		Metrics:        gatewayMetrics,
		Logger:         logger.Component("fulfillment"),
		VoiceActionURL: voiceActionURL,
	})
	voiceHandler := handlers.NewVoiceHandler(handlers.VoiceHandlerConfig{
		Sessions:           sessions,
		Recorder:           recorder,
		Metrics:            gatewayMetrics,
		Logger:             logger.Component("voice"),
		ActionURL:          voiceActionURL,
		AuthToken:          cfg.TwilioAuthToken,
		ValidateSignatures: cfg.ValidateSignatures,
	})
	outboundVoiceHandler := handlers.NewOutboundVoiceHandler(callStore, contentSvc, logger.Component("voice"))
	statusHandler := handlers.NewStatusCallbackHandler(handlers.StatusCallbackHandlerConfig{
		CallStore:          callStore,
		MessageStore:       messageStore,
		Metrics:            gatewayMetrics,
		Logger:             logger.Component("status"),
		PublicBaseURL:      cfg.PublicBaseURL,
		AuthToken:          cfg.TwilioAuthToken,
		ValidateSignatures: cfg.ValidateSignatures,
	})
	scheduleHandler := handlers.NewScheduleHandler(handlers.ScheduleHandlerConfig{
		Store:         callStore,
		Dialer:        dialer,
		Alerts:        alerts,
		Metrics:       gatewayMetrics,
		Logger:        logger.Component("schedule"),
		PublicBaseURL: cfg.PublicBaseURL,
		WebhookSecret: cfg.WebhookSecret,
	})
	sendHandler := handlers.NewSendHandler(handlers.SendHandlerConfig{
		Store:   messageStore,
		Sender:  whatsapp,
		Content: contentSvc,
		Alerts:  alerts,
		Metrics: gatewayMetrics,
		Logger:  logger.Component("send"),
	})
	adminHandler := handlers.NewAdminHandler(db, logger.Component("admin"))

	r := router.New(router.Config{
		Logger:             logger,
		Fulfillment:        fulfillmentHandler,
		Voice:              voiceHandler,
		OutboundVoice:      outboundVoiceHandler,
		Status:             statusHandler,
		Schedule:           scheduleHandler,
		Send:               sendHandler,
		Admin:              adminHandler,
		WebhookSecret:      cfg.WebhookSecret,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
