package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "ORD", cfg.OrderNumberPrefix)
	assert.Equal(t, "SAL", cfg.SaleNumberPrefix)
	assert.Equal(t, 5*time.Minute, cfg.ProductCacheTTL())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MailEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ORDER_NUMBER_PREFIX", "PED")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("STOCK_ALERT_INTERVAL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "PED", cfg.OrderNumberPrefix)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, 15*time.Minute, cfg.StockAlertInterval())
}
