package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "auth_token", cfg.Auth.CookieName)
	assert.Equal(t, 7, cfg.Auth.TokenTTLDays)
	assert.Equal(t, 100, cfg.Client.PageSize)
	assert.Equal(t, 300, cfg.Client.DebounceMS)
	assert.Equal(t, 5000, cfg.Import.BatchSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REGISTRY_SERVER_PORT", "9090")
	t.Setenv("REGISTRY_STORE_DRIVER", "sqlite")
	t.Setenv("REGISTRY_AUTH_USERS", "ops:s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "ops:s3cret", cfg.Auth.Users)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	assert.Error(t, err)
}
