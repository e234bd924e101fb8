package repository

import (
	"context"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

// ReportRepository defines the interface for the conversion report sink.
type ReportRepository interface {
	// StoreProductTotal writes one product's total, replacing any prior
	// document for the same product. The run ID tags the document's
	// provenance.
	StoreProductTotal(ctx context.Context, total *entity.ProductTotal, runID string) error

	// ListProductTotals retrieves all stored product totals.
	ListProductTotals(ctx context.Context) ([]entity.ProductTotal, error)
}
