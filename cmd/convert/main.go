package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"

	"github.com/solfx/rate-pipeline/internal/application/service"
	"github.com/solfx/rate-pipeline/internal/infrastructure/config"
	"github.com/solfx/rate-pipeline/internal/infrastructure/db"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
	"github.com/solfx/rate-pipeline/internal/infrastructure/parser"
)

func main() {
	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)

	if err := run(log); err != nil {
		log.Fatal("Conversion run failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func run(log logger.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	salesFile, err := os.Open(cfg.SalesCSVPath)
	if err != nil {
		return fmt.Errorf("failed to open sales input %s: %w", cfg.SalesCSVPath, err)
	}
	defer salesFile.Close()

	records, err := parser.NewSalesCSVReader(log).Load(salesFile)
	if err != nil {
		return err
	}

	rel, err := db.NewSQLiteRateRepository(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open relational store: %w", err)
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

	resolver := service.NewBackfillResolver(store, log)
	converter := service.NewConversionService(resolver, db.NewBadgerReportRepository(badgerDB), log)

	report, err := converter.ConvertSales(context.Background(), records)
	if err != nil {
		return err
	}

	fmt.Println("Total converted value by product:")
	for _, total := range report.Totals {
		fmt.Printf("  %-20s %s\n", total.Product, total.TotalConverted.StringFixed(2))
	}
	if len(report.Totals) == 0 {
		fmt.Println("  (none)")
	}
	fmt.Printf("%d of %d rows converted, %d without a usable rate.\n",
		report.RowsConverted, len(records), report.UnresolvedRows)

	return nil
}
