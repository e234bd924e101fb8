package service

import (
	"context"
	"time"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

// QuoteAPI defines the interface for the external daily quote service.
type QuoteAPI interface {
	// FetchDailyQuote retrieves and normalizes one calendar date's quote.
	// It never returns an error: transport failures and non-success
	// statuses yield a record with null buy/sell for that date, which the
	// caller stores as a "checked but unavailable" fact.
	FetchDailyQuote(ctx context.Context, date time.Time) *entity.RateRecord
}
