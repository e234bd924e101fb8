package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"

	"github.com/solfx/rate-pipeline/internal/application/service"
	"github.com/solfx/rate-pipeline/internal/infrastructure/config"
	"github.com/solfx/rate-pipeline/internal/infrastructure/db"
	"github.com/solfx/rate-pipeline/internal/infrastructure/handler"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
	"github.com/solfx/rate-pipeline/internal/infrastructure/middleware"
)

func main() {
	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)

	if err := run(log); err != nil {
		log.Fatal("Server failed", map[string]interface{}{
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
	reports := db.NewBadgerReportRepository(badgerDB)

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(log))
	handler.NewRateHandler(store, resolver, log).RegisterRoutes(router)
	handler.NewReportHandler(reports, log).RegisterRoutes(router)

	log.Info("Rate query server listening", map[string]interface{}{
		"addr": cfg.ListenAddr,
	})

	return http.ListenAndServe(cfg.ListenAddr, router)
}
