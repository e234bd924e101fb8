// Package service internal/application/service/backfill_resolver.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/domain/repository"
	"github.com/solfx/rate-pipeline/internal/infrastructure/cache"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

// BackfillResolver answers "what rate applies on this date" with a backward
// point-in-time lookup: the exact date's record when it carries a quote,
// otherwise the most recent earlier record that does. No forward fill, no
// interpolation. A record with only one side populated is returned as-is;
// the missing side is never filled from a different date.
type BackfillResolver struct {
	store  repository.RateStore
	cache  *cache.ResolvedRateCache
	logger logger.Logger
}

// NewBackfillResolver creates a resolver backed by the rate store.
// Resolutions are memoized per date, so a batch with many rows on the same
// date performs one store lookup.
func NewBackfillResolver(store repository.RateStore, log logger.Logger) *BackfillResolver {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &BackfillResolver{
		store:  store,
		cache:  cache.NewResolvedRateCache(),
		logger: log,
	}
}

// Resolve returns the buy/sell pair applicable on date. A fully-null pair
// means unresolved: no record on or before the date carries a quote. That is
// an expected outcome, not an error; errors are store failures only.
func (r *BackfillResolver) Resolve(ctx context.Context, date time.Time) (cache.RatePair, error) {
	if pair, ok := r.cache.Get(date); ok {
		return pair, nil
	}

	pair, err := r.lookup(ctx, date)
	if err != nil {
		return cache.RatePair{}, err
	}

	r.cache.Put(date, pair)
	return pair, nil
}

func (r *BackfillResolver) lookup(ctx context.Context, date time.Time) (cache.RatePair, error) {
	rec, err := r.store.Find(ctx, date)
	if err != nil {
		return cache.RatePair{}, fmt.Errorf("failed to resolve rate for %s: %w", date.Format(entity.DateLayout), err)
	}

	if rec != nil && rec.HasQuote() {
		return cache.RatePair{Buy: rec.Buy, Sell: rec.Sell}, nil
	}

	prior, err := r.store.FindLatestBefore(ctx, date)
	if err != nil {
		return cache.RatePair{}, fmt.Errorf("failed to backfill rate for %s: %w", date.Format(entity.DateLayout), err)
	}

	if prior == nil {
		r.logger.Debug("No rate on or before date", map[string]interface{}{
			"date": date.Format(entity.DateLayout),
		})
		return cache.RatePair{}, nil
	}

	r.logger.Debug("Backfilled rate from earlier date", map[string]interface{}{
		"date":      date.Format(entity.DateLayout),
		"rate_date": prior.Key(),
	})

	return cache.RatePair{Buy: prior.Buy, Sell: prior.Sell}, nil
}
