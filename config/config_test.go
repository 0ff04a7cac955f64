package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wlt.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.DisplayCurrency)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, time.Hour, cfg.Market.GetRateTTL())
	assert.Equal(t, time.Minute, cfg.Market.GetQuoteTTL())
	assert.Equal(t, 4, cfg.Market.Concurrency)
	assert.Equal(t, "yahoo", cfg.Market.Provider)
	assert.Empty(t, cfg.Market.QuoteURL)
}

func TestLoad_FilesInOrder(t *testing.T) {
	first := writeFile(t, `
display_currency = "usd"

[storage]
backend = "sqlite"
path = "wealth.db"

[market]
rate_ttl = "30m"
`)
	second := writeFile(t, `
[storage]
path = "other.db"
`)

	cfg, err := Load(first, second)
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.DisplayCurrency)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "other.db", cfg.Storage.Path)
	assert.Equal(t, 30*time.Minute, cfg.Market.GetRateTTL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WLT_DISPLAY_CURRENCY", "chf")
	t.Setenv("WLT_DATA_FILE", "/tmp/assets.jsonl")
	t.Setenv("WLT_LOG_LEVEL", "debug")
	t.Setenv("WLT_CONCURRENCY", "8")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("EODHD_API_KEY", "eod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "CHF", cfg.DisplayCurrency)
	assert.Equal(t, "/tmp/assets.jsonl", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Market.Concurrency)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, "eod", cfg.Market.EODHDKey)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeFile(t, `[storage]
backend = "cloud"`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, `display_currency = `))
	assert.Error(t, err)

	_, err = Load(writeFile(t, `[market]
provider = "bloomberg"`))
	assert.Error(t, err)
}

func TestDuration_Fallback(t *testing.T) {
	c := MarketConfig{Timeout: "soon", QuoteTTL: "-1s"}
	assert.Equal(t, 10*time.Second, c.GetTimeout())
	assert.Equal(t, time.Minute, c.GetQuoteTTL())
}
