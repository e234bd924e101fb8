// Package db internal/infrastructure/db/dual_rate_store.go
package db

import (
	"context"
	"errors"
	"time"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/domain/repository"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

var _ repository.RateStore = (*DualRateStore)(nil)

// relationalSink is the keyed store that also serves all point-in-time queries.
type relationalSink interface {
	Upsert(ctx context.Context, rec *entity.RateRecord) error
	Find(ctx context.Context, date time.Time) (*entity.RateRecord, error)
	FindLatestBefore(ctx context.Context, date time.Time) (*entity.RateRecord, error)
	Close() error
}

// documentSink holds the full document per date, raw payload included.
type documentSink interface {
	Put(ctx context.Context, rec *entity.RateRecord) error
	Close() error
}

// DualRateStore persists every record into two independent sinks. The writes
// are not coordinated by a transaction: if the document write fails after the
// relational write succeeded, the sinks are inconsistent for that date. That
// window is a documented limitation and is surfaced as a warning rather than
// an error, so a run keeps going.
type DualRateStore struct {
	relational relationalSink
	document   documentSink
	logger     logger.Logger
}

// NewDualRateStore creates a rate store writing to both sinks and reading
// from the relational one.
func NewDualRateStore(relational relationalSink, document documentSink, log logger.Logger) *DualRateStore {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &DualRateStore{
		relational: relational,
		document:   document,
		logger:     log,
	}
}

// Upsert writes the record to the relational sink and then to the document
// sink. A relational failure means the record is stored nowhere and is
// returned to the caller; a document failure after a relational success is
// logged as a warning naming the date and sink.
func (s *DualRateStore) Upsert(ctx context.Context, rec *entity.RateRecord) error {
	if err := s.relational.Upsert(ctx, rec); err != nil {
		return err
	}

	if err := s.document.Put(ctx, rec); err != nil {
		s.logger.Warn("Document sink write failed after relational write, sinks are inconsistent for this date", map[string]interface{}{
			"date":  rec.Key(),
			"sink":  "document",
			"error": err.Error(),
		})
	}

	return nil
}

// Find retrieves the record for the exact date from the relational sink.
func (s *DualRateStore) Find(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	return s.relational.Find(ctx, date)
}

// FindLatestBefore retrieves the most recent usable record strictly earlier
// than date from the relational sink.
func (s *DualRateStore) FindLatestBefore(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	return s.relational.FindLatestBefore(ctx, date)
}

// Close releases both sinks.
func (s *DualRateStore) Close() error {
	return errors.Join(s.relational.Close(), s.document.Close())
}
