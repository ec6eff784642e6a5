package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"HTTP_ADDR", "STORAGE_DRIVER", "EVENTS_ENABLED", "ORDER_BACKEND_URL", "BACKEND_TIMEOUT", "BACKEND_RETRY_ATTEMPTS", "BACKEND_RETRY_DELAY", "CORS_ALLOW_ORIGINS", "SHOP_TIMEZONE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.False(t, cfg.EventsEnabled)
	assert.Empty(t, cfg.OrderBackendURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 3, cfg.BackendRetryAttempts)
	assert.Equal(t, time.Second, cfg.BackendRetryDelay)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("ORDER_BACKEND_URL", "https://api.example.com/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("BACKEND_RETRY_ATTEMPTS", "-2")
	t.Setenv("BACKEND_RETRY_DELAY", "soon")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, "https://api.example.com", cfg.OrderBackendURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 3, cfg.BackendRetryAttempts)
	assert.Equal(t, time.Second, cfg.BackendRetryDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAIL_FROM=hello@example.com\nHTTP_ADDR=:9999\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("HTTP_ADDR", ":7070")
	// godotenv only fills unset variables
	t.Setenv("MAIL_FROM", "")
	require.NoError(t, os.Unsetenv("MAIL_FROM"))

	cfg := Load()
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "hello@example.com", cfg.MailFrom)
}

func TestLocationInvalid(t *testing.T) {
	_, err := Config{TimeZone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
