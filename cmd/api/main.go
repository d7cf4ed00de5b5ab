// Package main provides the entrypoint for the HazardWatch API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hazardwatch/hazardwatch/internal/analysis"
	"github.com/hazardwatch/hazardwatch/internal/api"
	"github.com/hazardwatch/hazardwatch/internal/api/middleware"
	"github.com/hazardwatch/hazardwatch/internal/catalog/copernicus"
	"github.com/hazardwatch/hazardwatch/internal/config"
	"github.com/hazardwatch/hazardwatch/internal/provider/resilience"
	"github.com/hazardwatch/hazardwatch/internal/region"
	"github.com/hazardwatch/hazardwatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "hazardwatch-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting HazardWatch API")

	cfg := config.FromEnv()

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	providerMetrics, err := copernicus.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	// Region registry is built once and injected everywhere it is needed.
	registry := region.DefaultRegistry()
	log.Info().Int("regions", registry.Len()).Msg("region registry initialized")

	// Resilient outbound client for the catalog provider, tracked in the
	// provider health registry surfaced on the ops status endpoint.
	providerRegistry := resilience.NewRegistry()
	clientCfg := resilience.DefaultClientConfig(copernicus.ProviderName)
	clientCfg.Timeout = cfg.Copernicus.Timeout
	resilientClient := resilience.NewClient(clientCfg)
	providerRegistry.Register(copernicus.ProviderName, resilientClient)

	if cfg.Copernicus.ClientID == "" || cfg.Copernicus.ClientSecret == "" {
		log.Warn().Msg("Copernicus credentials not configured - search and analyze will fail")
	}

	tokenClient := copernicus.NewTokenClient(copernicus.TokenClientConfig{
		ClientID:     cfg.Copernicus.ClientID,
		ClientSecret: cfg.Copernicus.ClientSecret,
		TokenURL:     cfg.Copernicus.TokenURL,
		HTTPClient:   resilientClient,
		Logger:       log,
	})
	var tokens analysis.TokenSource = tokenClient
	if cfg.Copernicus.TokenCacheEnabled {
		tokens = copernicus.NewCachedTokenSource(copernicus.CachedTokenSourceConfig{
			Source: tokenClient,
		})
		log.Info().Msg("token caching enabled")
	}

	catalogClient := copernicus.NewClient(copernicus.ClientConfig{
		BaseURL:    cfg.Copernicus.CatalogURL,
		HTTPClient: resilientClient,
		Registry:   providerRegistry,
		Metrics:    providerMetrics,
		Logger:     log,
	})

	analysisService := analysis.NewService(analysis.ServiceConfig{
		Registry: registry,
		Tokens:   tokens,
		Catalog:  catalogClient,
		Logger:   log,
	})
	log.Info().Msg("analysis service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		AnalysisService:  analysisService,
		ProviderRegistry: providerRegistry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
