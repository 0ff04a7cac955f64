// Package config loads the configuration of the wlt command.
//
// Values come from defaults, then TOML files in order, then a .env file and
// WLT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for wlt
type Config struct {
	DisplayCurrency string        `toml:"display_currency"` // currency of totals and analysis
	Storage         StorageConfig `toml:"storage"`
	Market          MarketConfig  `toml:"market"`
	Gemini          GeminiConfig  `toml:"gemini"`
	Logging         LoggingConfig `toml:"logging"`
}

// StorageConfig holds the asset book storage configuration.
type StorageConfig struct {
	Backend string `toml:"backend"` // "file" or "sqlite"
	Path    string `toml:"path"`
	Key     string `toml:"key"` // slot key, sqlite only
}

// MarketConfig holds the price and exchange rate clients configuration.
type MarketConfig struct {
	Provider    string `toml:"provider"` // "yahoo" or "eodhd"
	QuoteURL    string `toml:"quote_url"` // empty for the provider's default
	EODHDKey    string `toml:"eodhd_key"`
	RatesURL    string `toml:"rates_url"`
	Timeout     string `toml:"timeout"`
	QuoteTTL    string `toml:"quote_ttl"`
	RateTTL     string `toml:"rate_ttl"`
	RateCache   string `toml:"rate_cache"` // file persisting exchange rates, empty to disable
	Concurrency int    `toml:"concurrency"`
	DailyCache  bool   `toml:"daily_cache"` // cache raw quote responses on disk for the day
}

// GetTimeout parses and returns the timeout duration
func (c *MarketConfig) GetTimeout() time.Duration { return duration(c.Timeout, 10*time.Second) }

// GetQuoteTTL parses and returns how long a quote is reused.
func (c *MarketConfig) GetQuoteTTL() time.Duration { return duration(c.QuoteTTL, time.Minute) }

// GetRateTTL parses and returns how long an exchange rate table is reused.
func (c *MarketConfig) GetRateTTL() time.Duration { return duration(c.RateTTL, time.Hour) }

func duration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		DisplayCurrency: "EUR",
		Storage: StorageConfig{
			Backend: "file",
			Path:    "assets.jsonl",
			Key:     "assets",
		},
		Market: MarketConfig{
			Provider:    "yahoo",
			RatesURL:    "https://api.exchangerate-api.com/v4/latest/",
			Timeout:     "10s",
			QuoteTTL:    "60s",
			RateTTL:     "1h",
			RateCache:   filepath.Join(os.TempDir(), "wlt-rates.msgpack"),
			Concurrency: 4,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Pretty: true,
		},
	}
}

// Load loads configuration from files with environment overrides.
// Missing files are skipped.
func Load(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Load .env file if it exists, it never overrides the actual environment.
	_ = godotenv.Load()
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("WLT_DISPLAY_CURRENCY"); v != "" {
		config.DisplayCurrency = v
	}
	if v := os.Getenv("WLT_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}
	if v := os.Getenv("WLT_DATA_FILE"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("WLT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("WLT_QUOTE_TTL"); v != "" {
		config.Market.QuoteTTL = v
	}
	if v := os.Getenv("WLT_RATE_TTL"); v != "" {
		config.Market.RateTTL = v
	}
	if v := os.Getenv("WLT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Market.Concurrency = n
		}
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		config.Market.EODHDKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("WLT_GEMINI_MODEL"); v != "" {
		config.Gemini.Model = v
	}
	config.DisplayCurrency = strings.ToUpper(strings.TrimSpace(config.DisplayCurrency))
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q, want \"file\" or \"sqlite\"", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is missing")
	}
	switch c.Market.Provider {
	case "yahoo", "eodhd":
	default:
		return fmt.Errorf("unknown price provider %q, want \"yahoo\" or \"eodhd\"", c.Market.Provider)
	}
	if len(c.DisplayCurrency) != 3 {
		return fmt.Errorf("invalid display currency %q", c.DisplayCurrency)
	}
	if c.Market.Concurrency < 1 {
		c.Market.Concurrency = 1
	}
	return nil
}
