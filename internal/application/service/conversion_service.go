// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/domain/repository"
	"github.com/solfx/rate-pipeline/internal/infrastructure/cache"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

// RateResolver resolves the rate pair applicable on a date.
type RateResolver interface {
	Resolve(ctx context.Context, date time.Time) (cache.RatePair, error)
}

// ConversionReport is the output of one conversion run: per-product totals in
// the target currency plus the count of rows no usable rate could be found
// for.
type ConversionReport struct {
	RunID          string
	Totals         []entity.ProductTotal
	RowsConverted  int
	UnresolvedRows int
}

// ConversionService converts a batch of sales records from the source
// currency into the target currency. Conversion uses only the sell rate;
// buy is carried through the stores for audit and never enters the
// arithmetic. A row whose date resolves to a null sell is unresolved: it is
// counted and contributes nothing to any product's total.
type ConversionService struct {
	resolver RateResolver
	reports  repository.ReportRepository
	logger   logger.Logger
}

// NewConversionService creates a new conversion service writing per-product
// totals to the report sink.
func NewConversionService(resolver RateResolver, reports repository.ReportRepository, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		resolver: resolver,
		reports:  reports,
		logger:   log,
	}
}

// ConvertSales converts the batch and persists one report document per
// product with at least one resolved row. Grouping sums are commutative, so
// row order never changes the totals; the returned slice is sorted by
// product for deterministic output.
func (s *ConversionService) ConvertSales(ctx context.Context, records []entity.SalesRecord) (*ConversionReport, error) {
	report := &ConversionReport{RunID: uuid.New().String()}
	totals := make(map[string]decimal.Decimal)

	for _, rec := range records {
		pair, err := s.resolver.Resolve(ctx, rec.Date)
		if err != nil {
			return nil, err
		}

		if !pair.Sell.Valid {
			report.UnresolvedRows++
			s.logger.Debug("Sales row unresolved, no usable sell rate", map[string]interface{}{
				"date":    rec.Date.Format(entity.DateLayout),
				"product": rec.Product,
			})
			continue
		}

		converted := rec.UnitPrice.Mul(rec.Quantity).Mul(pair.Sell.Decimal)
		totals[rec.Product] = totals[rec.Product].Add(converted)
		report.RowsConverted++
	}

	products := make([]string, 0, len(totals))
	for product := range totals {
		products = append(products, product)
	}
	sort.Strings(products)

	for _, product := range products {
		total := entity.ProductTotal{Product: product, TotalConverted: totals[product]}
		report.Totals = append(report.Totals, total)

		if err := s.reports.StoreProductTotal(ctx, &total, report.RunID); err != nil {
			s.logger.Warn("Failed to store product total", map[string]interface{}{
				"product": product,
				"run_id":  report.RunID,
				"error":   err.Error(),
			})
		}
	}

	s.logger.Info("Sales conversion completed", map[string]interface{}{
		"run_id":          report.RunID,
		"rows":            len(records),
		"rows_converted":  report.RowsConverted,
		"rows_unresolved": report.UnresolvedRows,
		"products":        len(report.Totals),
	})

	return report, nil
}
