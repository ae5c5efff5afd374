package devbackend

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/tourbook/internal/devbackend/httpapi"
)

// devSecret is used when JWT_SECRET is unset. Run logs a warning.
const devSecret = "tourbook-devbackend-insecure-secret"

// Config carries environment-driven settings for the dev backend process.
type Config struct {
	Port                       string
	PostgresDSN                string
	JWTSecret                  string
	AccessTokenTTL             time.Duration
	RefreshTokenTTL            time.Duration
	CookieSecure               bool
	SessionPurgeIntervalMinute int
	LogFormat                  string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	cfg := Config{
		Port:            envDefault("PORT", "5000"),
		PostgresDSN:     strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		JWTSecret:       envDefault("JWT_SECRET", devSecret),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: httpapi.DefaultRefreshTTL,
		CookieSecure:    isTruthy(os.Getenv("COOKIE_SECURE")),
		LogFormat:       envDefault("LOG_FORMAT", "json"),
	}
	var err error
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = durationEnv("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return Config{}, fmt.Errorf("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL")
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("SESSION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.SessionPurgeIntervalMinute = minutes
	}
	return cfg, nil
}

// UsesDevSecret reports whether tokens are signed with the built-in secret.
func (c Config) UsesDevSecret() bool {
	return c.JWTSecret == devSecret
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
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
