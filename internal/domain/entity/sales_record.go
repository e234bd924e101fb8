package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord is one row of the sales input, priced in the source currency.
// Records are built once per run from the input file and never persisted.
type SalesRecord struct {
	Date      time.Time
	Product   string
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
}

// Validate ensures the record meets the minimum requirements for conversion.
func (s *SalesRecord) Validate() error {
	if s.Product == "" {
		return errors.New("product must not be empty")
	}

	if s.Date.IsZero() {
		return errors.New("date is required")
	}

	return nil
}
