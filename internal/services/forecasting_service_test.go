package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pharmaforge/rxcast-go/internal/cache"
	"github.com/pharmaforge/rxcast-go/internal/models"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GetForecast(ctx context.Context, itemID, itemType string, horizonDays int, cadence string) (*models.ForecastResult, error) {
	args := m.Called(ctx, itemID, itemType, horizonDays, cadence)
	if f := args.Get(0); f != nil {
		return f.(*models.ForecastResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) GetHistoricalSeries(ctx context.Context, itemType, itemID string, timeframe models.Timeframe) ([]models.HistoricalObservation, error) {
	args := m.Called(ctx, itemType, itemID, timeframe)
	if obs := args.Get(0); obs != nil {
		return obs.([]models.HistoricalObservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) TrainModel(ctx context.Context, itemID, itemName, itemType string) (*models.TrainingResult, error) {
	args := m.Called(ctx, itemID, itemName, itemType)
	if r := args.Get(0); r != nil {
		return r.(*models.TrainingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) GetAccuracy(ctx context.Context) (*models.AccuracyReport, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*models.AccuracyReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(backend *mockBackend) (*ForecastingService, *cache.MemoryHistoryCache) {
	history := cache.NewMemoryHistoryCache()
	svc := NewForecastingService(backend, history, testGenerator(), NewBaselineForecaster(42), bulkLogger())
	return svc, history
}

func testForecastContext() ForecastingContext {
	return ForecastingContext{
		Item:      testItem(),
		ItemType:  "product",
		Timeframe: models.Timeframe1M,
	}
}

func TestSalesSeriesPrefersCachedObservations(t *testing.T) {
	backend := &mockBackend{}
	svc, history := newTestService(backend)

	fc := testForecastContext()
	history.Put(fc.cacheKey(), []models.HistoricalObservation{
		{Date: "2026-06-01", Quantity: 12},
		{Date: "2026-06-02", Quantity: 9},
	})

	records, err := svc.SalesSeries(context.Background(), fc)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 12, records[0].Sales)
	backend.AssertNotCalled(t, "GetHistoricalSeries")
}

func TestSalesSeriesFetchesAndCaches(t *testing.T) {
	backend := &mockBackend{}
	svc, history := newTestService(backend)
	fc := testForecastContext()

	observations := []models.HistoricalObservation{
		{Date: "2026-06-01", Quantity: 20},
	}
	backend.On("GetHistoricalSeries", mock.Anything, "product", fc.Item.ID, models.Timeframe1M).
		Return(observations, nil).Once()

	records, err := svc.SalesSeries(context.Background(), fc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 20, records[0].Sales)

	cached, ok := history.Get(fc.cacheKey())
	require.True(t, ok, "fetched observations are cached")
	assert.Len(t, cached, 1)
	backend.AssertExpectations(t)
}

func TestSalesSeriesFallsBackToGenerator(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	fc := testForecastContext()

	backend.On("GetHistoricalSeries", mock.Anything, "product", fc.Item.ID, models.Timeframe1M).
		Return(nil, errors.New("backend down")).Once()

	records, err := svc.SalesSeries(context.Background(), fc)
	require.NoError(t, err, "fetch failures are non-fatal")
	assert.Len(t, records, 90)
	backend.AssertExpectations(t)
}

func TestSalesSeriesInvalidatesUnparsableCache(t *testing.T) {
	backend := &mockBackend{}
	svc, history := newTestService(backend)
	fc := testForecastContext()

	history.Put(fc.cacheKey(), []models.HistoricalObservation{
		{Date: "not a date", Quantity: 5},
	})
	backend.On("GetHistoricalSeries", mock.Anything, "product", fc.Item.ID, models.Timeframe1M).
		Return(nil, errors.New("backend down")).Once()

	records, err := svc.SalesSeries(context.Background(), fc)
	require.NoError(t, err)
	assert.Len(t, records, 90, "bad cache entry is dropped and series regenerated")

	_, ok := history.Get(fc.cacheKey())
	assert.False(t, ok)
}

func TestForecastReturnsBackendResult(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	fc := testForecastContext()

	want := &models.ForecastResult{Values: []float64{10, 11, 12}}
	backend.On("GetForecast", mock.Anything, fc.Item.ID, "product", 14, "daily").
		Return(want, nil).Once()

	got := svc.Forecast(context.Background(), fc, 14)
	assert.Equal(t, want, got)
	backend.AssertNotCalled(t, "TrainModel")
}

func TestForecastRetrainsAndRetries(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	fc := testForecastContext()

	want := &models.ForecastResult{Values: []float64{8, 9}}
	backend.On("GetForecast", mock.Anything, fc.Item.ID, "product", 14, "daily").
		Return(nil, errors.New("no model")).Once()
	backend.On("TrainModel", mock.Anything, fc.Item.ID, fc.Item.Name, "product").
		Return(&models.TrainingResult{Message: "trained"}, nil).Once()
	backend.On("GetForecast", mock.Anything, fc.Item.ID, "product", 14, "daily").
		Return(want, nil).Once()

	got := svc.Forecast(context.Background(), fc, 14)
	assert.Equal(t, want, got)
	backend.AssertExpectations(t)
}

func TestForecastFallsBackToBaseline(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	fc := testForecastContext()

	backend.On("GetForecast", mock.Anything, fc.Item.ID, "product", 14, "daily").
		Return(nil, errors.New("down")).Twice()
	backend.On("TrainModel", mock.Anything, fc.Item.ID, fc.Item.Name, "product").
		Return(nil, errors.New("also down")).Once()

	got := svc.Forecast(context.Background(), fc, 14)
	require.NotNil(t, got, "baseline always yields something to chart")
	assert.Len(t, got.Values, 14)
	backend.AssertExpectations(t)
}

func TestForecastTreatsEmptyResultAsMiss(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	fc := testForecastContext()

	backend.On("GetForecast", mock.Anything, fc.Item.ID, "product", 7, "daily").
		Return(&models.ForecastResult{}, nil).Twice()
	backend.On("TrainModel", mock.Anything, fc.Item.ID, fc.Item.Name, "product").
		Return(&models.TrainingResult{}, nil).Once()

	got := svc.Forecast(context.Background(), fc, 7)
	require.NotNil(t, got)
	assert.Len(t, got.Values, 7)
}

func TestAccuracyPrefersPerTargetModel(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	fc := testForecastContext()

	backend.On("GetAccuracy", mock.Anything).Return(&models.AccuracyReport{
		AccuracyPercentage: 70,
		Models: []models.ModelAccuracy{
			{TargetID: "other", AccuracyPercentage: 95},
			{TargetID: fc.Item.ID, AccuracyPercentage: 88},
		},
	}, nil).Once()

	acc := svc.Accuracy(context.Background(), fc)
	require.NotNil(t, acc)
	assert.InDelta(t, 88.0, *acc, 1e-9)
}

func TestAccuracyFallsBackToOverall(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	fc := testForecastContext()

	backend.On("GetAccuracy", mock.Anything).Return(&models.AccuracyReport{
		AccuracyPercentage: 70,
		Models:             []models.ModelAccuracy{{TargetID: "other", AccuracyPercentage: 95}},
	}, nil).Once()

	acc := svc.Accuracy(context.Background(), fc)
	require.NotNil(t, acc)
	assert.InDelta(t, 70.0, *acc, 1e-9)
}

func TestAccuracyNilWhenBackendDown(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)

	backend.On("GetAccuracy", mock.Anything).Return(nil, errors.New("down")).Once()

	assert.Nil(t, svc.Accuracy(context.Background(), testForecastContext()))
}

func TestInvalidateTimeframeDropsCacheEntry(t *testing.T) {
	backend := &mockBackend{}
	svc, history := newTestService(backend)
	fc := testForecastContext()

	history.Put(fc.cacheKey(), []models.HistoricalObservation{{Date: "2026-06-01", Quantity: 1}})
	svc.InvalidateTimeframe(fc)

	_, ok := history.Get(fc.cacheKey())
	assert.False(t, ok)
}

func TestSeriesForUsesProductContext(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newTestService(backend)
	item := testItem()

	backend.On("GetHistoricalSeries", mock.Anything, "product", item.ID, models.Timeframe7D).
		Return(nil, errors.New("down")).Once()

	records, err := svc.SeriesFor(context.Background(), item, models.Timeframe7D)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
	backend.AssertExpectations(t)
}
