package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Tx.LockWait)
	assert.Equal(t, 10*time.Second, cfg.Tx.Timeout)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "bill_session", cfg.Session.CookieName)
	assert.Equal(t, "gemini", cfg.Extraction.Provider)
	assert.Empty(t, cfg.Extraction.Model)
	assert.Equal(t, 60, cfg.Extraction.TimeoutSecs)
	assert.Equal(t, int64(10), cfg.Extraction.MaxImageMB)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BILLDESK_DB_HOST", "db.internal")
	t.Setenv("BILLDESK_TX_LOCK_WAIT", "2s")
	t.Setenv("BILLDESK_EXTRACTION_PROVIDER", "claude")
	t.Setenv("BILLDESK_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 2*time.Second, cfg.Tx.LockWait)
	assert.Equal(t, "claude", cfg.Extraction.Provider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)

	t.Setenv("BILLDESK_SERVER_PORT", ":7070")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestLoad_ProductionForcesSecureCookie(t *testing.T) {
	t.Setenv("BILLDESK_SERVER_ENVIRONMENT", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Session.Secure)
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("BILLDESK_TX_TIMEOUT", "0s")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	d := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", d.DSN())
}
