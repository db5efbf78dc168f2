package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "config-test-secret")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr())
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, 5, cfg.LoginMaxAttempts)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyRetention)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigPortOverridesAddr(t *testing.T) {
	t.Setenv("SESSION_SECRET", "config-test-secret")
	t.Setenv("PORT", "3333")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":3333", cfg.ListenAddr())
}

func TestLoadConfigRejectsShortProductionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "short")
	t.Setenv("APP_ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}
