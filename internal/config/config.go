// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Port     int    `envconfig:"PORT" default:"8000"`
	DataDir  string `envconfig:"DATA_DIR" default:"./data"` // Holds client_data.db, always absolute after Load
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogPretty switches to the console writer instead of JSON lines
	LogPretty bool `envconfig:"LOG_PRETTY" default:"true"`
	DevMode   bool `envconfig:"DEV_MODE" default:"false"`

	// Server-side fallbacks for the per-request credential headers
	FinnhubAPIKey string `envconfig:"FINNHUB_API_KEY"`
	SecAPIKey     string `envconfig:"SEC_API_KEY"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000,http://127.0.0.1:8000"`

	CacheEnabled         bool   `envconfig:"CACHE_ENABLED" default:"true"`
	CacheCleanupSchedule string `envconfig:"CACHE_CLEANUP_SCHEDULE" default:"0 0 * * * *"` // cron with seconds

	FinnhubRequestsPerMinute int           `envconfig:"FINNHUB_REQUESTS_PER_MINUTE" default:"60"`
	YahooRequestsPerMinute   int           `envconfig:"YAHOO_REQUESTS_PER_MINUTE" default:"120"`
	UpstreamTimeout          time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"20s"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	cfg.DataDir = absDataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.FinnhubRequestsPerMinute <= 0 {
		return fmt.Errorf("FINNHUB_REQUESTS_PER_MINUTE must be positive, got %d", c.FinnhubRequestsPerMinute)
	}
	if c.YahooRequestsPerMinute <= 0 {
		return fmt.Errorf("YAHOO_REQUESTS_PER_MINUTE must be positive, got %d", c.YahooRequestsPerMinute)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

// ClientDataPath returns the location of the provider response cache database.
func (c *Config) ClientDataPath() string {
	return filepath.Join(c.DataDir, "client_data.db")
}
