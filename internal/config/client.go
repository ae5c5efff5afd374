// Package config loads client settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
)

// Client carries environment-driven settings for API consumers.
type Client struct {
	BaseURL  string
	Timeout  time.Duration
	Email    string
	Password string
	Debug    bool
}

// LoadClient reads TOURBOOK_* variables, applies defaults, and validates
// basic constraints. A .env file in the working directory is loaded first;
// variables already set in the environment win.
func LoadClient() (Client, error) {
	_ = godotenv.Load()
	cfg := Client{
		BaseURL:  envDefault("TOURBOOK_API_URL", backend.DefaultBaseURL),
		Timeout:  backend.DefaultTimeout,
		Email:    strings.TrimSpace(os.Getenv("TOURBOOK_EMAIL")),
		Password: os.Getenv("TOURBOOK_PASSWORD"),
		Debug:    isTruthy(os.Getenv("TOURBOOK_DEBUG")),
	}
	if raw := strings.TrimSpace(os.Getenv("TOURBOOK_HTTP_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Client{}, fmt.Errorf("TOURBOOK_HTTP_TIMEOUT must be a positive duration")
		}
		cfg.Timeout = timeout
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return Client{}, fmt.Errorf("TOURBOOK_API_URL must be an http(s) URL, got %q", cfg.BaseURL)
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
