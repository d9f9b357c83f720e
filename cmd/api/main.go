// Package main is the entry point for the relay server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fenix-platform/whatsapp-relay/internal/ai"
	"github.com/fenix-platform/whatsapp-relay/internal/business"
	"github.com/fenix-platform/whatsapp-relay/internal/config"
	"github.com/fenix-platform/whatsapp-relay/internal/handler"
	"github.com/fenix-platform/whatsapp-relay/internal/middleware"
	natsclient "github.com/fenix-platform/whatsapp-relay/internal/nats"
	"github.com/fenix-platform/whatsapp-relay/internal/service"
	"github.com/fenix-platform/whatsapp-relay/internal/store"
	"github.com/fenix-platform/whatsapp-relay/internal/whatsapp"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
	"github.com/fenix-platform/whatsapp-relay/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting relay server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "whatsapp-relay", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS for message fan-out when configured
	var publisher service.EventPublisher
	if cfg.NATSURL != "" {
		nc, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer nc.Close()

		streamPublisher := natsclient.NewStreamPublisher(nc)
		if err := streamPublisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure stream", zap.Error(err))
			os.Exit(1)
		}
		publisher = streamPublisher
	}

	// Initialize the reply generator
	provider := ai.Provider(cfg.DefaultAI)
	apiKey := cfg.OpenAIAPIKey
	if provider == ai.ProviderAnthropic {
		apiKey = cfg.AnthropicAPIKey
	}
	responder, err := ai.NewResponder(provider, apiKey)
	if err != nil {
		log.Warn("failed to create AI responder, using fallback replies", zap.Error(err))
		responder = ai.NewFallbackResponder()
	}
	log.Info("reply generator initialized", zap.String("provider", responder.Name()))

	// Initialize the provider client
	waClient := whatsapp.NewClient(whatsapp.Config{
		AccessToken:   cfg.WhatsAppAccessToken,
		VerifyToken:   cfg.WhatsAppVerifyToken,
		PhoneNumberID: cfg.WhatsAppPhoneNumberID,
		BaseURL:       cfg.GraphAPIBaseURL,
	}, log)
	if !waClient.Configured() {
		log.Warn("WhatsApp credentials missing, outbound sends disabled")
	}

	// Initialize state and services
	messageStore := store.NewMemoryStore()
	registry := business.NewRegistry(log)
	conversationSvc := service.NewConversationService(messageStore, log)
	messageSvc := service.NewMessageService(messageStore, registry, waClient, publisher, log)
	ingestSvc := service.NewIngestService(messageStore, registry, responder, waClient, publisher, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(waClient, responder.Name())
	webhookHandler := handler.NewWebhookHandler(ingestSvc, waClient, log)
	businessHandler := handler.NewBusinessHandler(registry, messageSvc, conversationSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Provider webhook (no auth; the provider cannot send bearer tokens)
	r.Get("/webhook", webhookHandler.Verify)
	r.Post("/webhook", webhookHandler.Receive)

	// Health and metrics
	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Business API with authentication
	r.Route("/api/v1/business", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/configure", businessHandler.Configure)
		r.Get("/configure/{businessId}", businessHandler.Get)
		r.Put("/configure/{businessId}", businessHandler.Update)
		r.Get("/all", businessHandler.List)

		r.Post("/send-message", businessHandler.SendMessage)
		r.Post("/broadcast", businessHandler.Broadcast)

		r.Get("/analytics/{businessId}", businessHandler.Analytics)
		r.Get("/conversations/{businessId}", businessHandler.Conversations)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
