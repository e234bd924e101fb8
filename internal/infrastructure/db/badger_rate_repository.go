// Package db internal/infrastructure/db/badger_rate_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

const rateKeyPrefix = "rate:"

// BadgerRateRepository is the document rate sink: one JSON document per
// calendar date, carrying the quote plus the raw service response for
// traceability. Every write fully replaces the prior document.
type BadgerRateRepository struct {
	db *badger.DB
}

// NewBadgerRateRepository creates a new BadgerDB rate repository.
func NewBadgerRateRepository(db *badger.DB) *BadgerRateRepository {
	return &BadgerRateRepository{db: db}
}

// Put stores the record's document under its date key, replacing any prior
// document for that date.
func (r *BadgerRateRepository) Put(ctx context.Context, rec *entity.RateRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal rate document: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rateKeyPrefix+rec.Key()), data)
	})

	if err != nil {
		return fmt.Errorf("failed to store rate document for %s: %w", rec.Key(), err)
	}

	return nil
}

// Get retrieves the document stored for a date, or (nil, nil) when absent.
func (r *BadgerRateRepository) Get(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	key := date.Format(entity.DateLayout)

	var rec entity.RateRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(rateKeyPrefix + key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rate document for %s: %w", key, err)
	}

	return &rec, nil
}

// Close closes the underlying BadgerDB handle.
func (r *BadgerRateRepository) Close() error {
	return r.db.Close()
}
