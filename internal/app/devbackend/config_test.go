package devbackend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "POSTGRES_DSN", "JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "COOKIE_SECURE", "SESSION_PURGE_INTERVAL_MINUTES", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()

	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.True(t, cfg.UsesDevSecret())
	require.False(t, cfg.CookieSecure)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "a-much-better-secret-value")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("COOKIE_SECURE", "yes")
	t.Setenv("SESSION_PURGE_INTERVAL_MINUTES", "30")
	t.Setenv("POSTGRES_DSN", " postgres://tour:book@db:5432/tourbook ")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL)
	require.True(t, cfg.CookieSecure)
	require.False(t, cfg.UsesDevSecret())
	require.Equal(t, 30, cfg.SessionPurgeIntervalMinute)
	require.Equal(t, "postgres://tour:book@db:5432/tourbook", cfg.PostgresDSN)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := map[string][2]string{
		"bad ttl":            {"ACCESS_TOKEN_TTL", "soon"},
		"refresh not longer": {"REFRESH_TOKEN_TTL", "10m"},
		"bad purge interval": {"SESSION_PURGE_INTERVAL_MINUTES", "-1"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
