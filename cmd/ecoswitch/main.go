package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/greenstack/ecoswitch/internal/application/services"
	domainServices "github.com/greenstack/ecoswitch/internal/domain/services"
	"github.com/greenstack/ecoswitch/internal/infrastructure/config"
	"github.com/greenstack/ecoswitch/internal/infrastructure/logging"
	"github.com/greenstack/ecoswitch/internal/infrastructure/metrics"
	"github.com/greenstack/ecoswitch/internal/infrastructure/providers"
	"github.com/greenstack/ecoswitch/internal/presentation/api"
)

func main() {
	// Parse CLI flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	host := flag.String("host", "", "Server host (overrides config)")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Pick up provider API keys from a local .env when present. The config
	// file references them via ${VAR} expansion.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Apply CLI overrides
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Validate configuration: a bad catalog is fatal at startup, never a
	// per-query error.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))

	// Initialize LLM providers
	providerRegistry := make(map[string]domainServices.LLMProvider)
	for name, providerCfg := range cfg.Providers {
		if !providerCfg.Enabled {
			continue
		}

		var provider domainServices.LLMProvider
		switch name {
		case "anthropic":
			provider = providers.NewAnthropicProvider(providerCfg)
		case "openai":
			provider = providers.NewOpenAIProvider(providerCfg)
		case "ollama":
			provider = providers.NewOllamaProvider(providerCfg)
		case "local":
			provider = providers.NewLocalProvider(cfg.Classifier.TokenDivisor)
		default:
			logger.Warn("unknown provider in config, skipping", map[string]interface{}{
				"provider": name,
			})
			continue
		}

		providerRegistry[name] = provider
		logger.Info("initialized provider", map[string]interface{}{
			"provider": name,
		})
	}

	// Assemble the pipeline
	classifier := services.NewClassifier(cfg.Classifier)
	router := services.NewModelRouter(cfg.Router, cfg.Models, providerRegistry, logger)
	accountant := services.NewCarbonAccountant(cfg.Carbon, cfg.Models)
	ledger := metrics.NewUsageLedger(cfg.History.Capacity)

	handler := api.NewHandler(classifier, router, accountant, ledger, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(api.CORSMiddleware())

	// Routes
	r.Post("/api/query", handler.Query)
	r.Post("/api/suggest-model", handler.SuggestModel)
	r.Get("/api/models", handler.ListModels)
	r.Get("/api/stats", handler.Stats)
	r.Get("/health", handler.Health)

	// HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", map[string]interface{}{
			"addr":   addr,
			"models": len(cfg.Models),
		})
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)

	case sig := <-shutdown:
		logger.Info("shutting down gracefully", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", err)
			if err := server.Close(); err != nil {
				log.Fatalf("Failed to close server: %v", err)
			}
		}

		logger.Info("server stopped")
	}
}
