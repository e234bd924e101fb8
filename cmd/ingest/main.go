package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"

	"github.com/solfx/rate-pipeline/internal/application/service"
	"github.com/solfx/rate-pipeline/internal/infrastructure/api"
	"github.com/solfx/rate-pipeline/internal/infrastructure/config"
	"github.com/solfx/rate-pipeline/internal/infrastructure/db"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

func main() {
	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)

	if err := run(log); err != nil {
		log.Fatal("Ingestion run failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func run(log logger.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rel, err := db.NewSQLiteRateRepository(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open relational store: %w", err)
	}

	if err := os.MkdirAll(cfg.BadgerDir, 0755); err != nil {
		rel.Close()
		return fmt.Errorf("failed to create document store directory: %w", err)
	}

	badgerOpts := badger.DefaultOptions(cfg.BadgerDir)
	badgerOpts.Logger = nil

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		rel.Close()
		return fmt.Errorf("failed to open document store: %w", err)
	}

	store := db.NewDualRateStore(rel, db.NewBadgerRateRepository(badgerDB), log)
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Error closing rate store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	client := api.NewQuoteAPIClient(cfg.QuoteAPIBaseURL, cfg.QuoteAPIToken, nil, log)
	ingestor := service.NewIngestionService(client, store, cfg.FetchDelay, log)

	summary, err := ingestor.IngestRange(context.Background(), cfg.RangeStart, cfg.RangeEnd)
	if err != nil {
		return err
	}

	fmt.Printf("Done. %d days processed (%d quotes, %d null, %d store failures), stored in %s and %s.\n",
		summary.DatesProcessed, summary.QuotesFound, summary.NullQuotes, summary.StoreFailures,
		cfg.SQLitePath, cfg.BadgerDir)

	return nil
}
