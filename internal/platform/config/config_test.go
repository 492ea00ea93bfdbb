package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PGSQL_URL", "PORT", "RATE_LIMIT", "EXCHANGE_CACHE_TTL", "REPORT_URL_EXPIRY", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, 2*time.Minute, cfg.ExchangeCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.CloverlyTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ReportURLExpiry)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://carbon@localhost/carbon")
	t.Setenv("PORT", "9090")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("RATE_LIMIT", "20-S")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")
	t.Setenv("EXCHANGE_CACHE_TTL", "45s")
	t.Setenv("CLOVERLY_API_KEY", "private_key")
	t.Setenv("REPORT_BUCKET", "carbon-reports")
	t.Setenv("REPORT_URL_EXPIRY", "not-a-duration")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://carbon@localhost/carbon", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "20-S", cfg.RateLimit)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.ExchangeCacheTTL)
	assert.Equal(t, "private_key", cfg.CloverlyAPIKey)
	assert.Equal(t, "carbon-reports", cfg.ReportBucket)
	assert.Equal(t, 24*time.Hour, cfg.ReportURLExpiry)
}
