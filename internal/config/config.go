// Package config provides environment-driven configuration for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the server needs to start. All values come from
// the environment (loaded from .env by the entrypoint when present).
type Config struct {
	Port        int
	DatabaseURL string

	// Generation service
	GroqAPIKey string
	GroqModel  string // empty means the built-in default

	// Google export integration
	GoogleClientID     string
	GoogleClientSecret string

	// Company candidate search (Custom Search). Both must be set for the
	// search endpoint to be available.
	GoogleCSEAPIKey string
	GoogleCSECX     string

	// Crawl behavior
	UseBrowserFallback bool

	// Logging
	Development bool
}

// Load reads configuration from the environment. DATABASE_URL and
// GROQ_API_KEY are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               8080,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GroqModel:          os.Getenv("GROQ_MODEL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCSEAPIKey:    os.Getenv("GOOGLE_CSE_API_KEY"),
		GoogleCSECX:        os.Getenv("GOOGLE_CSE_CX"),
		UseBrowserFallback: os.Getenv("USE_BROWSER_FALLBACK") == "true",
		Development:        os.Getenv("APP_ENV") != "production",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required but not set")
	}

	return cfg, nil
}
