// Package service internal/application/service/ingestion_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/domain/repository"
	domainservice "github.com/solfx/rate-pipeline/internal/domain/service"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

// IngestSummary is the fold of every per-date outcome of an ingestion run.
type IngestSummary struct {
	DatesProcessed int
	QuotesFound    int
	NullQuotes     int
	StoreFailures  int
}

// dateOutcome tags the result of one fetch-then-upsert cycle. Expected gaps
// (no quote published) are values, not errors.
type dateOutcome struct {
	date     time.Time
	hasQuote bool
	storeErr error
}

// IngestionService drives the date-range ingestion loop: one fetch-then-upsert
// cycle per date, strictly sequential in ascending order, with a fixed delay
// between successive external calls to respect the quote service's rate
// limits. A failure on one date never aborts the loop.
type IngestionService struct {
	quotes domainservice.QuoteAPI
	store  repository.RateStore
	delay  time.Duration
	logger logger.Logger
}

// NewIngestionService creates a new ingestion service. delay is the minimum
// pause between successive quote requests.
func NewIngestionService(quotes domainservice.QuoteAPI, store repository.RateStore, delay time.Duration, log logger.Logger) *IngestionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &IngestionService{
		quotes: quotes,
		store:  store,
		delay:  delay,
		logger: log,
	}
}

// IngestRange fetches and persists one quote per calendar date in
// [start, end], inclusive.
func (s *IngestionService) IngestRange(ctx context.Context, start, end time.Time) (*IngestSummary, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s precedes start %s",
			end.Format(entity.DateLayout), start.Format(entity.DateLayout))
	}

	s.logger.Info("Starting rate ingestion", map[string]interface{}{
		"start": start.Format(entity.DateLayout),
		"end":   end.Format(entity.DateLayout),
	})

	summary := &IngestSummary{}
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if summary.DatesProcessed > 0 {
			time.Sleep(s.delay)
		}

		outcome := s.ingestDate(ctx, date)
		summary.DatesProcessed++
		switch {
		case outcome.storeErr != nil:
			summary.StoreFailures++
		case outcome.hasQuote:
			summary.QuotesFound++
		default:
			summary.NullQuotes++
		}
	}

	s.logger.Info("Rate ingestion completed", map[string]interface{}{
		"dates_processed": summary.DatesProcessed,
		"quotes_found":    summary.QuotesFound,
		"null_quotes":     summary.NullQuotes,
		"store_failures":  summary.StoreFailures,
	})

	return summary, nil
}

func (s *IngestionService) ingestDate(ctx context.Context, date time.Time) dateOutcome {
	// Fetch failures never surface here: the client records them as a
	// null-valued quote for the date.
	rec := s.quotes.FetchDailyQuote(ctx, date)

	if err := s.store.Upsert(ctx, rec); err != nil {
		s.logger.Error("Failed to store rate, continuing with next date", map[string]interface{}{
			"date":  rec.Key(),
			"error": err.Error(),
		})
		return dateOutcome{date: date, hasQuote: rec.HasQuote(), storeErr: err}
	}

	return dateOutcome{date: date, hasQuote: rec.HasQuote()}
}
