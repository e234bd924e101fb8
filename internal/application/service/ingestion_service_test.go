// internal/application/service/ingestion_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/mocks"
)

func TestIngestRangeProcessesEveryDate(t *testing.T) {
	quotes := new(mocks.MockQuoteAPI)
	store := new(mocks.MockRateStore)
	svc := NewIngestionService(quotes, store, 0, quietLogger())
	ctx := context.Background()

	start := testDay("2023-01-02")
	end := testDay("2023-01-04")

	quotes.On("FetchDailyQuote", ctx, testDay("2023-01-02")).
		Return(&entity.RateRecord{Date: testDay("2023-01-02"), Buy: nd("3.75"), Sell: nd("3.80")}).Once()
	quotes.On("FetchDailyQuote", ctx, testDay("2023-01-03")).
		Return(entity.EmptyRateRecord(testDay("2023-01-03"))).Once()
	quotes.On("FetchDailyQuote", ctx, testDay("2023-01-04")).
		Return(&entity.RateRecord{Date: testDay("2023-01-04"), Sell: nd("3.78")}).Once()
	store.On("Upsert", ctx, mock.Anything).Return(nil).Times(3)

	summary, err := svc.IngestRange(ctx, start, end)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.DatesProcessed)
	assert.Equal(t, 2, summary.QuotesFound)
	assert.Equal(t, 1, summary.NullQuotes, "a holiday's null quote still occupies its date")
	assert.Equal(t, 0, summary.StoreFailures)
	quotes.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestIngestRangeStoreFailureDoesNotAbortLoop(t *testing.T) {
	quotes := new(mocks.MockQuoteAPI)
	store := new(mocks.MockRateStore)
	svc := NewIngestionService(quotes, store, 0, quietLogger())
	ctx := context.Background()

	quotes.On("FetchDailyQuote", ctx, mock.Anything).
		Return(&entity.RateRecord{Date: testDay("2023-01-02"), Sell: nd("3.80")})
	store.On("Upsert", ctx, mock.Anything).Return(assert.AnError).Once()
	store.On("Upsert", ctx, mock.Anything).Return(nil).Once()

	summary, err := svc.IngestRange(ctx, testDay("2023-01-02"), testDay("2023-01-03"))

	require.NoError(t, err)
	assert.Equal(t, 2, summary.DatesProcessed)
	assert.Equal(t, 1, summary.StoreFailures)
	store.AssertExpectations(t)
}

func TestIngestRangeSingleDay(t *testing.T) {
	quotes := new(mocks.MockQuoteAPI)
	store := new(mocks.MockRateStore)
	svc := NewIngestionService(quotes, store, 0, quietLogger())
	ctx := context.Background()

	day := testDay("2023-06-15")
	quotes.On("FetchDailyQuote", ctx, day).Return(entity.EmptyRateRecord(day)).Once()
	store.On("Upsert", ctx, mock.Anything).Return(nil).Once()

	summary, err := svc.IngestRange(ctx, day, day)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.DatesProcessed)
}

func TestIngestRangeRejectsInvertedRange(t *testing.T) {
	svc := NewIngestionService(new(mocks.MockQuoteAPI), new(mocks.MockRateStore), 0, quietLogger())

	_, err := svc.IngestRange(context.Background(), testDay("2023-02-01"), testDay("2023-01-01"))
	assert.Error(t, err)
}
