// Package repository internal/domain/repository/rate_store.go
package repository

import (
	"context"
	"time"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

// RateStore defines the interface for the dual-sink exchange rate store.
// Lookups return (nil, nil) when no record exists; absence is not an error.
type RateStore interface {
	// Upsert persists a record under its date key. Inserting an existing
	// date fully replaces the prior values (last write wins).
	Upsert(ctx context.Context, rec *entity.RateRecord) error

	// Find retrieves the record stored for the exact date.
	Find(ctx context.Context, date time.Time) (*entity.RateRecord, error)

	// FindLatestBefore retrieves the most recent record strictly earlier
	// than date that has a non-null buy or sell.
	FindLatestBefore(ctx context.Context, date time.Time) (*entity.RateRecord, error)

	// Close releases the underlying store connections.
	Close() error
}
