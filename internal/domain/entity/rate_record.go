package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date form used as the storage key in both sinks.
const DateLayout = "2006-01-02"

// RateRecord is one calendar date's buy/sell quote as returned by the quote
// service. Buy and Sell are independently nullable: a record with both sides
// null still occupies its date key and records that the date was checked but
// no quote was published (weekends, holidays).
type RateRecord struct {
	Date time.Time           `json:"date"`
	Buy  decimal.NullDecimal `json:"buy"`
	Sell decimal.NullDecimal `json:"sell"`
	// Raw is the quote service's response body, kept for traceability only.
	// It is never parsed downstream.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Key returns the record's unique store key.
func (r *RateRecord) Key() string {
	return r.Date.Format(DateLayout)
}

// HasQuote reports whether at least one side of the quote is present.
func (r *RateRecord) HasQuote() bool {
	return r.Buy.Valid || r.Sell.Valid
}

// EmptyRateRecord returns the "checked but unavailable" record for a date.
func EmptyRateRecord(date time.Time) *RateRecord {
	return &RateRecord{Date: date}
}
