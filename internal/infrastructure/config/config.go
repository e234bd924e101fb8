// Package config internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

const (
	defaultQuoteAPIBaseURL = "https://api.decolecta.com/v1/tipo-cambio/sunat"
	defaultSQLitePath      = "base.db"
	defaultBadgerDir       = "data"
	defaultRangeStart      = "2023-01-01"
	defaultRangeEnd        = "2023-12-31"
	defaultFetchDelay      = 100 * time.Millisecond
	defaultSalesCSVPath    = "ventas.csv"
	defaultListenAddr      = ":8080"
)

// Config carries every process-wide setting. It is loaded once in main and
// passed into components at construction so they stay testable with fakes.
type Config struct {
	QuoteAPIBaseURL string
	// QuoteAPIToken is sent as a bearer credential when non-empty.
	QuoteAPIToken string
	SQLitePath    string
	BadgerDir     string
	RangeStart    time.Time
	RangeEnd      time.Time
	// FetchDelay is the minimum pause between successive quote requests.
	FetchDelay   time.Duration
	SalesCSVPath string
	ListenAddr   string
}

// Load reads configuration from a .env file (if present) and the environment,
// falling back to defaults.
func Load() (Config, error) {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		QuoteAPIBaseURL: envOrDefault("QUOTE_API_BASE_URL", defaultQuoteAPIBaseURL),
		QuoteAPIToken:   strings.TrimSpace(os.Getenv("QUOTE_API_TOKEN")),
		SQLitePath:      envOrDefault("SQLITE_PATH", defaultSQLitePath),
		BadgerDir:       envOrDefault("BADGER_DIR", defaultBadgerDir),
		SalesCSVPath:    envOrDefault("SALES_CSV_PATH", defaultSalesCSVPath),
		ListenAddr:      envOrDefault("LISTEN_ADDR", defaultListenAddr),
	}

	var err error
	cfg.RangeStart, err = time.Parse(entity.DateLayout, envOrDefault("RANGE_START", defaultRangeStart))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RANGE_START: %w", err)
	}

	cfg.RangeEnd, err = time.Parse(entity.DateLayout, envOrDefault("RANGE_END", defaultRangeEnd))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RANGE_END: %w", err)
	}

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return Config{}, fmt.Errorf("RANGE_END %s precedes RANGE_START %s",
			cfg.RangeEnd.Format(entity.DateLayout), cfg.RangeStart.Format(entity.DateLayout))
	}

	cfg.FetchDelay = defaultFetchDelay
	if raw := strings.TrimSpace(os.Getenv("FETCH_DELAY")); raw != "" {
		cfg.FetchDelay, err = time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FETCH_DELAY: %w", err)
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
