// Package db internal/infrastructure/db/badger_report_repository.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/domain/repository"
)

const reportKeyPrefix = "report:product:"

// reportSource tags every product total document with its provenance.
const reportSource = "sales_csv_conversion"

var _ repository.ReportRepository = (*BadgerReportRepository)(nil)

// BadgerReportRepository stores the conversion output: one document per
// product, keyed by the product identifier, replaced on every run that
// observes the product.
type BadgerReportRepository struct {
	db *badger.DB
}

// NewBadgerReportRepository creates a new BadgerDB report repository.
func NewBadgerReportRepository(db *badger.DB) *BadgerReportRepository {
	return &BadgerReportRepository{db: db}
}

type productTotalDocument struct {
	Product        string          `json:"product"`
	TotalConverted decimal.Decimal `json:"total_converted"`
	Source         string          `json:"source"`
	RunID          string          `json:"run_id"`
}

// StoreProductTotal writes one product's total, replacing any prior document
// for the same product.
func (r *BadgerReportRepository) StoreProductTotal(ctx context.Context, total *entity.ProductTotal, runID string) error {
	doc := productTotalDocument{
		Product:        total.Product,
		TotalConverted: total.TotalConverted,
		Source:         reportSource,
		RunID:          runID,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal product total: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(reportKeyPrefix+total.Product), data)
	})

	if err != nil {
		return fmt.Errorf("failed to store product total for %q: %w", total.Product, err)
	}

	return nil
}

// ListProductTotals retrieves all stored product totals, sorted by product.
func (r *BadgerReportRepository) ListProductTotals(ctx context.Context) ([]entity.ProductTotal, error) {
	var totals []entity.ProductTotal

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var doc productTotalDocument
				if err := json.Unmarshal(val, &doc); err != nil {
					return err
				}
				totals = append(totals, entity.ProductTotal{
					Product:        doc.Product,
					TotalConverted: doc.TotalConverted,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list product totals: %w", err)
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].Product < totals[j].Product })

	return totals, nil
}
