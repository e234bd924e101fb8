// Package parser internal/infrastructure/parser/sales_csv.go
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

// Column aliases recognized in the sales input header, matched
// case-insensitively.
var (
	dateAliases     = []string{"fecha", "date", "día", "dia"}
	productAliases  = []string{"producto", "producto_name", "item", "product", "nombre"}
	priceAliases    = []string{"precio", "price", "valor"}
	quantityAliases = []string{"cantidad", "qty", "cantidad_vendida", "units"}
)

// Accepted calendar date forms for the date column.
var dateLayouts = []string{entity.DateLayout, "02/01/2006"}

// SchemaError reports a sales input whose header lacks a required column
// role. It aborts the conversion run.
type SchemaError struct {
	Role string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sales input has no identifiable %s column", e.Role)
}

// SalesCSVReader parses a header-bearing sales CSV into typed records.
// Required roles are date, product and price; a missing quantity column is
// not an error, every row's quantity then defaults to 1. Malformed data rows
// are logged and skipped so one bad row cannot abort the batch.
type SalesCSVReader struct {
	logger logger.Logger
}

// NewSalesCSVReader creates a new sales CSV reader.
func NewSalesCSVReader(log logger.Logger) *SalesCSVReader {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &SalesCSVReader{logger: log}
}

type columnMap struct {
	date     int
	product  int
	price    int
	quantity int // -1 when the input has no quantity column
}

// Load parses the sales input, producing one record per data row in input
// order.
func (p *SalesCSVReader) Load(r io.Reader) ([]entity.SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read sales header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []entity.SalesRecord
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			p.logger.Warn("Skipping unreadable sales row", map[string]interface{}{
				"row":   rowNum,
				"error": err.Error(),
			})
			continue
		}

		rec, err := p.parseRow(row, cols)
		if err != nil {
			p.logger.Warn("Skipping malformed sales row", map[string]interface{}{
				"row":   rowNum,
				"error": err.Error(),
			})
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

func mapColumns(header []string) (columnMap, error) {
	normalized := make([]string, len(header))
	for i, name := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(name))
	}

	cols := columnMap{
		date:     findColumn(normalized, dateAliases),
		product:  findColumn(normalized, productAliases),
		price:    findColumn(normalized, priceAliases),
		quantity: findColumn(normalized, quantityAliases),
	}

	switch {
	case cols.date < 0:
		return columnMap{}, &SchemaError{Role: "date"}
	case cols.product < 0:
		return columnMap{}, &SchemaError{Role: "product"}
	case cols.price < 0:
		return columnMap{}, &SchemaError{Role: "price"}
	}

	return cols, nil
}

func findColumn(normalized []string, aliases []string) int {
	for i, name := range normalized {
		for _, alias := range aliases {
			if name == alias {
				return i
			}
		}
	}
	return -1
}

func (p *SalesCSVReader) parseRow(row []string, cols columnMap) (entity.SalesRecord, error) {
	maxIdx := cols.date
	if cols.product > maxIdx {
		maxIdx = cols.product
	}
	if cols.price > maxIdx {
		maxIdx = cols.price
	}
	if len(row) <= maxIdx {
		return entity.SalesRecord{}, fmt.Errorf("row has %d fields, need at least %d", len(row), maxIdx+1)
	}

	date, err := parseDate(strings.TrimSpace(row[cols.date]))
	if err != nil {
		return entity.SalesRecord{}, err
	}

	price, err := decimal.NewFromString(strings.TrimSpace(row[cols.price]))
	if err != nil {
		return entity.SalesRecord{}, fmt.Errorf("invalid price %q: %w", row[cols.price], err)
	}

	quantity := decimal.NewFromInt(1)
	if cols.quantity >= 0 && cols.quantity < len(row) {
		raw := strings.TrimSpace(row[cols.quantity])
		if raw != "" {
			quantity, err = decimal.NewFromString(raw)
			if err != nil {
				return entity.SalesRecord{}, fmt.Errorf("invalid quantity %q: %w", raw, err)
			}
		}
	}

	rec := entity.SalesRecord{
		Date:      date,
		Product:   strings.TrimSpace(row[cols.product]),
		UnitPrice: price,
		Quantity:  quantity,
	}

	if err := rec.Validate(); err != nil {
		return entity.SalesRecord{}, err
	}

	return rec, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
