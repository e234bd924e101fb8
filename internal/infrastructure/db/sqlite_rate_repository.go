// Package db internal/infrastructure/db/sqlite_rate_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

// SQLiteRateRepository is the relational rate sink: one row per calendar
// date, keyed by the ISO date string. Decimals are stored as TEXT so no
// precision is lost on the round trip.
type SQLiteRateRepository struct {
	db *sql.DB
}

// NewSQLiteRateRepository opens (or creates) the SQLite database at path and
// migrates the schema. Use ":memory:" for an in-memory database.
func NewSQLiteRateRepository(path string) (*SQLiteRateRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &SQLiteRateRepository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *SQLiteRateRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchange_rates (
		date TEXT PRIMARY KEY,
		buy  TEXT,
		sell TEXT
	);`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (r *SQLiteRateRepository) Close() error {
	return r.db.Close()
}

// Upsert inserts the record, replacing any prior values for the same date.
// Re-inserting an existing date is not an error.
func (r *SQLiteRateRepository) Upsert(ctx context.Context, rec *entity.RateRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (date, buy, sell)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET buy=excluded.buy, sell=excluded.sell`,
		rec.Key(), nullDecimalArg(rec.Buy), nullDecimalArg(rec.Sell))

	if err != nil {
		return fmt.Errorf("failed to upsert rate for %s: %w", rec.Key(), err)
	}

	return nil
}

// Find retrieves the record stored for the exact date, or (nil, nil) when the
// date was never ingested.
func (r *SQLiteRateRepository) Find(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT buy, sell FROM exchange_rates WHERE date = ?`,
		date.Format(entity.DateLayout))

	var buy, sell sql.NullString
	if err := row.Scan(&buy, &sell); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query rate for %s: %w", date.Format(entity.DateLayout), err)
	}

	return buildRecord(date.Format(entity.DateLayout), buy, sell)
}

// FindLatestBefore retrieves the most recent record strictly earlier than
// date that has a non-null buy or sell, or (nil, nil) when none exists.
// Dates are unique so there is never a tie to break.
func (r *SQLiteRateRepository) FindLatestBefore(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date, buy, sell FROM exchange_rates
		WHERE date < ? AND (buy IS NOT NULL OR sell IS NOT NULL)
		ORDER BY date DESC LIMIT 1`,
		date.Format(entity.DateLayout))

	var day string
	var buy, sell sql.NullString
	if err := row.Scan(&day, &buy, &sell); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest rate before %s: %w", date.Format(entity.DateLayout), err)
	}

	return buildRecord(day, buy, sell)
}

func nullDecimalArg(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func buildRecord(day string, buy, sell sql.NullString) (*entity.RateRecord, error) {
	date, err := time.Parse(entity.DateLayout, day)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", day, err)
	}

	rec := &entity.RateRecord{Date: date}

	if rec.Buy, err = parseNullDecimal(buy); err != nil {
		return nil, fmt.Errorf("invalid stored buy for %s: %w", day, err)
	}
	if rec.Sell, err = parseNullDecimal(sell); err != nil {
		return nil, fmt.Errorf("invalid stored sell for %s: %w", day, err)
	}

	return rec, nil
}

func parseNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
