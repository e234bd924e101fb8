// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/infrastructure/cache"
)

// MockRateStore mocks the RateStore interface
type MockRateStore struct {
	mock.Mock
}

func (m *MockRateStore) Upsert(ctx context.Context, rec *entity.RateRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRateStore) Find(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateRecord), args.Error(1)
}

func (m *MockRateStore) FindLatestBefore(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateRecord), args.Error(1)
}

func (m *MockRateStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockQuoteAPI mocks the external quote service interface
type MockQuoteAPI struct {
	mock.Mock
}

func (m *MockQuoteAPI) FetchDailyQuote(ctx context.Context, date time.Time) *entity.RateRecord {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return entity.EmptyRateRecord(date)
	}
	return args.Get(0).(*entity.RateRecord)
}

// MockReportRepository mocks the ReportRepository interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) StoreProductTotal(ctx context.Context, total *entity.ProductTotal, runID string) error {
	args := m.Called(ctx, total, runID)
	return args.Error(0)
}

func (m *MockReportRepository) ListProductTotals(ctx context.Context) ([]entity.ProductTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductTotal), args.Error(1)
}

// MockRateResolver mocks the rate resolver used by the conversion service
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) Resolve(ctx context.Context, date time.Time) (cache.RatePair, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(cache.RatePair), args.Error(1)
}
