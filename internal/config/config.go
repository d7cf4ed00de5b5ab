// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Env is the deployment environment name.
	Env string

	// OTLPEndpoint is the OpenTelemetry collector endpoint.
	OTLPEndpoint string

	// OTelEnabled toggles telemetry export.
	OTelEnabled bool

	// Copernicus holds the satellite catalog provider settings.
	Copernicus CopernicusConfig
}

// CopernicusConfig holds Copernicus Data Space settings.
type CopernicusConfig struct {
	// ClientID is the OAuth2 client id. Required for search and analyze.
	ClientID string

	// ClientSecret is the OAuth2 client secret. Required for search and analyze.
	ClientSecret string

	// TokenURL overrides the identity endpoint (optional).
	TokenURL string

	// CatalogURL overrides the catalog endpoint (optional).
	CatalogURL string

	// Timeout bounds each outbound catalog and token request.
	Timeout time.Duration

	// TokenCacheEnabled reuses credentials until expiry instead of
	// fetching a fresh token per request.
	TokenCacheEnabled bool
}

// FromEnv creates a Config from environment variables.
func FromEnv() Config {
	timeout, err := time.ParseDuration(getEnvOrDefault("COPERNICUS_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}

	return Config{
		Port:         getEnvOrDefault("APP_PORT", "8080"),
		Env:          getEnvOrDefault("APP_ENV", "development"),
		OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		Copernicus: CopernicusConfig{
			ClientID:          os.Getenv("COPERNICUS_CLIENT_ID"),
			ClientSecret:      os.Getenv("COPERNICUS_CLIENT_SECRET"),
			TokenURL:          os.Getenv("COPERNICUS_TOKEN_URL"),
			CatalogURL:        os.Getenv("COPERNICUS_CATALOG_URL"),
			Timeout:           timeout,
			TokenCacheEnabled: os.Getenv("COPERNICUS_TOKEN_CACHE") == "true",
		},
	}
}

// getEnvOrDefault returns the environment value or a default when unset.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
