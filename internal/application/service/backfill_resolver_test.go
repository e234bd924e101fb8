// internal/application/service/backfill_resolver_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
	"github.com/solfx/rate-pipeline/internal/mocks"
)

func testDay(iso string) time.Time {
	d, err := time.Parse(entity.DateLayout, iso)
	if err != nil {
		panic(err)
	}
	return d
}

func nd(value string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true}
}

func quietLogger() logger.Logger {
	return logger.NewJSONLogger(nil, logger.FatalLevel)
}

func TestResolveExactMatch(t *testing.T) {
	store := new(mocks.MockRateStore)
	resolver := NewBackfillResolver(store, quietLogger())
	ctx := context.Background()

	date := testDay("2023-01-02")
	store.On("Find", ctx, date).Return(&entity.RateRecord{
		Date: date,
		Buy:  nd("3.75"),
		Sell: nd("3.80"),
	}, nil).Once()

	pair, err := resolver.Resolve(ctx, date)

	require.NoError(t, err)
	assert.Equal(t, "3.75", pair.Buy.Decimal.String())
	assert.Equal(t, "3.8", pair.Sell.Decimal.String())
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "FindLatestBefore", ctx, date)
}

func TestResolveOneSidedRecordReturnedAsIs(t *testing.T) {
	store := new(mocks.MockRateStore)
	resolver := NewBackfillResolver(store, quietLogger())
	ctx := context.Background()

	date := testDay("2023-01-02")
	store.On("Find", ctx, date).Return(&entity.RateRecord{
		Date: date,
		Buy:  nd("3.75"),
	}, nil).Once()

	pair, err := resolver.Resolve(ctx, date)

	require.NoError(t, err)
	assert.True(t, pair.Buy.Valid)
	assert.False(t, pair.Sell.Valid, "the missing side must never be filled from a different date")
	store.AssertNotCalled(t, "FindLatestBefore", ctx, date)
}

func TestResolveBackfillsFromEarlierDate(t *testing.T) {
	store := new(mocks.MockRateStore)
	resolver := NewBackfillResolver(store, quietLogger())
	ctx := context.Background()

	holiday := testDay("2023-01-03")
	store.On("Find", ctx, holiday).Return(nil, nil).Once()
	store.On("FindLatestBefore", ctx, holiday).Return(&entity.RateRecord{
		Date: testDay("2023-01-02"),
		Buy:  nd("3.75"),
		Sell: nd("3.80"),
	}, nil).Once()

	pair, err := resolver.Resolve(ctx, holiday)

	require.NoError(t, err)
	assert.Equal(t, "3.8", pair.Sell.Decimal.String())
	store.AssertExpectations(t)
}

func TestResolveAllNullRecordTriggersBackfill(t *testing.T) {
	store := new(mocks.MockRateStore)
	resolver := NewBackfillResolver(store, quietLogger())
	ctx := context.Background()

	date := testDay("2023-01-03")
	store.On("Find", ctx, date).Return(entity.EmptyRateRecord(date), nil).Once()
	store.On("FindLatestBefore", ctx, date).Return(&entity.RateRecord{
		Date: testDay("2023-01-02"),
		Sell: nd("3.80"),
	}, nil).Once()

	pair, err := resolver.Resolve(ctx, date)

	require.NoError(t, err)
	assert.Equal(t, "3.8", pair.Sell.Decimal.String())
}

func TestResolveBeforeAnyRecordIsUnresolved(t *testing.T) {
	store := new(mocks.MockRateStore)
	resolver := NewBackfillResolver(store, quietLogger())
	ctx := context.Background()

	date := testDay("2023-01-01")
	store.On("Find", ctx, date).Return(nil, nil).Once()
	store.On("FindLatestBefore", ctx, date).Return(nil, nil).Once()

	pair, err := resolver.Resolve(ctx, date)

	require.NoError(t, err)
	assert.False(t, pair.Buy.Valid)
	assert.False(t, pair.Sell.Valid)
}

func TestResolveMemoizesPerDate(t *testing.T) {
	store := new(mocks.MockRateStore)
	resolver := NewBackfillResolver(store, quietLogger())
	ctx := context.Background()

	date := testDay("2023-01-02")
	store.On("Find", ctx, date).Return(&entity.RateRecord{Date: date, Sell: nd("3.80")}, nil).Once()

	for i := 0; i < 3; i++ {
		pair, err := resolver.Resolve(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, "3.8", pair.Sell.Decimal.String())
	}

	store.AssertExpectations(t)
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	store := new(mocks.MockRateStore)
	resolver := NewBackfillResolver(store, quietLogger())
	ctx := context.Background()

	date := testDay("2023-01-02")
	store.On("Find", ctx, date).Return(nil, errors.New("connection lost")).Once()

	_, err := resolver.Resolve(ctx, date)
	assert.Error(t, err)
}
