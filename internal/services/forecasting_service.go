package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmaforge/rxcast-go/internal/cache"
	"github.com/pharmaforge/rxcast-go/internal/forecastapi"
	"github.com/pharmaforge/rxcast-go/internal/models"
	"github.com/pharmaforge/rxcast-go/internal/telemetry"
)

// ForecastingContext carries everything a core computation needs to know
// about the current selection. It is passed explicitly so each call is pure
// given its inputs plus the observation cache snapshot.
type ForecastingContext struct {
	Item      models.Item
	ItemType  string // "product" or "category"
	Timeframe models.Timeframe
}

func (fc ForecastingContext) cacheKey() cache.HistoryKey {
	return cache.HistoryKey{
		ItemType:  fc.ItemType,
		ItemID:    fc.Item.ID,
		Timeframe: fc.Timeframe,
	}
}

// ForecastingService orchestrates the pipeline: history (cached, fetched, or
// synthesized), external forecasts with local fallback, and model accuracy.
type ForecastingService struct {
	backend    forecastapi.BackendClient
	history    cache.HistoryCache
	generator  *PatternGenerator
	normalizer *HistoricalNormalizer
	baseline   *BaselineForecaster
	logger     *logrus.Logger

	now func() time.Time
}

func NewForecastingService(
	backend forecastapi.BackendClient,
	history cache.HistoryCache,
	generator *PatternGenerator,
	baseline *BaselineForecaster,
	logger *logrus.Logger,
) *ForecastingService {
	return &ForecastingService{
		backend:    backend,
		history:    history,
		generator:  generator,
		normalizer: NewHistoricalNormalizer(),
		baseline:   baseline,
		logger:     logger,
		now:        time.Now,
	}
}

// SalesSeries returns the sales-record sequence for the selection. Cached
// real observations win; a backend fetch is attempted next and cached on
// success; the pattern generator covers everything else. Fetch failures are
// non-fatal by contract.
func (s *ForecastingService) SalesSeries(ctx context.Context, fc ForecastingContext) ([]models.SalesRecord, error) {
	key := fc.cacheKey()

	if observations, ok := s.history.Get(key); ok && len(observations) > 0 {
		records, err := s.normalizer.Normalize(observations, fc.Item)
		if err == nil {
			return records, nil
		}
		s.logger.WithField("key", key.String()).WithError(err).Warn("Cached observations failed to normalize, regenerating")
		s.history.Invalidate(key)
	}

	observations, err := s.backend.GetHistoricalSeries(ctx, fc.ItemType, fc.Item.ID, fc.Timeframe)
	if err != nil {
		s.logger.WithField("key", key.String()).WithError(err).Debug("Historical fetch failed, using synthetic series")
	} else if len(observations) > 0 {
		if records, nerr := s.normalizer.Normalize(observations, fc.Item); nerr == nil {
			s.history.Put(key, observations)
			return records, nil
		}
	}

	return s.generator.Generate(fc.Item, fc.Timeframe, s.now()), nil
}

// SeriesFor adapts SalesSeries to the bulk aggregator's provider contract.
func (s *ForecastingService) SeriesFor(ctx context.Context, item models.Item, tf models.Timeframe) ([]models.SalesRecord, error) {
	return s.SalesSeries(ctx, ForecastingContext{Item: item, ItemType: "product", Timeframe: tf})
}

// Forecast fetches predictions from the backend. On failure it requests a
// retrain (its own failure is swallowed), retries the fetch once, and finally
// substitutes the baseline forecast so callers always get something to chart.
func (s *ForecastingService) Forecast(ctx context.Context, fc ForecastingContext, horizonDays int) *models.ForecastResult {
	ctx, span := telemetry.Tracer("forecasting").Start(ctx, "forecast")
	defer span.End()

	forecast, err := s.backend.GetForecast(ctx, fc.Item.ID, fc.ItemType, horizonDays, "daily")
	if err == nil && forecast.HasValues() {
		return forecast
	}
	s.logger.WithFields(logrus.Fields{
		"item":      fc.Item.ID,
		"item_type": fc.ItemType,
	}).WithError(err).Warn("Forecast fetch failed, retraining and retrying")

	if _, terr := s.backend.TrainModel(ctx, fc.Item.ID, fc.Item.Name, fc.ItemType); terr != nil {
		s.logger.WithField("item", fc.Item.ID).WithError(terr).Warn("Retrain request failed")
	}

	forecast, err = s.backend.GetForecast(ctx, fc.Item.ID, fc.ItemType, horizonDays, "daily")
	if err == nil && forecast.HasValues() {
		return forecast
	}

	s.logger.WithField("item", fc.Item.ID).Info("Backend unavailable, building baseline forecast")
	return s.baseline.Build(fc.Item.AvgDailySales, horizonDays, s.now())
}

// Accuracy returns the accuracy percentage for the selection's model, falling
// back to the backend's overall percentage. Nil when the backend is down.
func (s *ForecastingService) Accuracy(ctx context.Context, fc ForecastingContext) *float64 {
	report, err := s.backend.GetAccuracy(ctx)
	if err != nil {
		s.logger.WithError(err).Debug("Accuracy fetch failed")
		return nil
	}

	for _, m := range report.Models {
		if m.TargetID == fc.Item.ID {
			acc := m.AccuracyPercentage
			return &acc
		}
	}
	acc := report.AccuracyPercentage
	return &acc
}

// InvalidateTimeframe drops the cached observations for the previous
// timeframe key. Callers invoke it before re-fetching on a timeframe switch
// so stale data never appears under the new key.
func (s *ForecastingService) InvalidateTimeframe(fc ForecastingContext) {
	s.history.Invalidate(fc.cacheKey())
}
