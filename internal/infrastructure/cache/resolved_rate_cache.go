package cache

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

// RatePair is a resolved buy/sell pair; either side may be null.
type RatePair struct {
	Buy  decimal.NullDecimal
	Sell decimal.NullDecimal
}

// ResolvedRateCache memoizes backfill resolutions by date for the duration of
// a conversion batch, so many sales rows on the same date cost one store
// lookup. Thread-safe; a parallelized batch can share one instance.
type ResolvedRateCache struct {
	cache map[string]RatePair
	mutex sync.RWMutex
}

// NewResolvedRateCache creates an empty cache.
func NewResolvedRateCache() *ResolvedRateCache {
	return &ResolvedRateCache{
		cache: make(map[string]RatePair),
	}
}

// Get retrieves the pair resolved for a date, if any.
func (c *ResolvedRateCache) Get(date time.Time) (RatePair, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	pair, ok := c.cache[date.Format(entity.DateLayout)]
	return pair, ok
}

// Put stores the pair resolved for a date. Fully-null pairs are cached too:
// an unresolvable date stays unresolvable for the whole batch.
func (c *ResolvedRateCache) Put(date time.Time, pair RatePair) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[date.Format(entity.DateLayout)] = pair
}

// Clear removes all entries.
func (c *ResolvedRateCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]RatePair)
}

// Size returns the number of cached dates.
func (c *ResolvedRateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}
