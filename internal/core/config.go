package core

import (
	"os"
)

// Config holds the application configuration.
type Config struct {
	LogLevel         string // debug, info, warn, error
	CatalogDir       string // Directory holding catalog.yaml
	DataDir          string // Directory for persisted requests and CLINs
	OpenRouterAPIKey string // Required for intake-assist operations
	DefaultModel     string // Default LLM model for intake assist
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	cfg := &Config{
		LogLevel:         logLevel,
		CatalogDir:       getEnvOrDefault("CATALOG_DIR", ".acqflow/catalog"),
		DataDir:          getEnvOrDefault("DATA_DIR", ".acqflow/data"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		DefaultModel:     getEnvOrDefault("DEFAULT_MODEL", "openrouter/anthropic/claude-3.5-sonnet"),
	}

	// The API key is only needed when intake assist is used; validated there,
	// not here.
	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
