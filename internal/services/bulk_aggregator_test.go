package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// stubSeriesProvider returns canned series per item id, or an error.
type stubSeriesProvider struct {
	series map[string][]models.SalesRecord
	errors map[string]error
}

func (s *stubSeriesProvider) SeriesFor(_ context.Context, item models.Item, _ models.Timeframe) ([]models.SalesRecord, error) {
	if err, ok := s.errors[item.ID]; ok {
		return nil, err
	}
	return s.series[item.ID], nil
}

func flatSeries(sales int, revenue, profit float64, n int) []models.SalesRecord {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.SalesRecord, n)
	for i := range records {
		date := start.AddDate(0, 0, i)
		records[i] = models.SalesRecord{
			Date:      date,
			Timestamp: date.UnixMilli(),
			Sales:     sales,
			Revenue:   revenue,
			Profit:    profit,
		}
	}
	return records
}

func bulkLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestAggregateProductsClassification(t *testing.T) {
	provider := &stubSeriesProvider{series: map[string][]models.SalesRecord{
		"fast":   flatSeries(20, 400, 200, 10), // margin 50, High profit
		"medium": flatSeries(10, 100, 20, 10),  // margin 20
		"slow":   flatSeries(2, 40, 4, 10),     // margin 10
	}}
	aggregator := NewBulkAggregator(provider, bulkLogger())

	items := []models.Item{
		{ID: "fast", Name: "Fast", AvgDailySales: 20},
		{ID: "medium", Name: "Medium", AvgDailySales: 10},
		{ID: "slow", Name: "Slow", AvgDailySales: 2},
	}

	report := aggregator.AggregateProducts(context.Background(), items, models.Timeframe1M)
	require.Len(t, report.Products, 3)

	assert.Equal(t, models.MovementFast, report.Products[0].DemandLevel)
	assert.Equal(t, models.LevelHigh, report.Products[0].ProfitLevel)
	assert.Equal(t, models.MovementMedium, report.Products[1].DemandLevel)
	assert.Equal(t, models.LevelLow, report.Products[1].ProfitLevel)
	assert.Equal(t, models.MovementSlow, report.Products[2].DemandLevel)

	assert.Equal(t, 1, report.FastMoving)
	assert.Equal(t, 1, report.SlowMoving)
	assert.Equal(t, 1, report.HighProfit)
	assert.Equal(t, 2, report.LowProfit)
	assert.InDelta(t, 540.0, report.TotalRevenue, 1e-9)
	assert.InDelta(t, 224.0, report.TotalProfit, 1e-9)
}

func TestAggregateProductsSkipsZeroSalesRate(t *testing.T) {
	provider := &stubSeriesProvider{series: map[string][]models.SalesRecord{
		"active": flatSeries(10, 100, 20, 5),
	}}
	aggregator := NewBulkAggregator(provider, bulkLogger())

	items := []models.Item{
		{ID: "active", Name: "Active", AvgDailySales: 10},
		{ID: "dormant", Name: "Dormant", AvgDailySales: 0},
	}

	report := aggregator.AggregateProducts(context.Background(), items, models.Timeframe1M)
	require.Len(t, report.Products, 1)
	assert.Equal(t, "active", report.Products[0].ID)
}

func TestAggregateProductsIsolatesFailures(t *testing.T) {
	series := make(map[string][]models.SalesRecord)
	items := make([]models.Item, 0, 100)
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("p-%d", i)
		items = append(items, models.Item{ID: id, Name: id, AvgDailySales: 10})
		series[id] = flatSeries(10, 100, 20, 5)
	}

	provider := &stubSeriesProvider{
		series: series,
		errors: map[string]error{"p-42": errors.New("series computation failed")},
	}
	aggregator := NewBulkAggregator(provider, bulkLogger())

	report := aggregator.AggregateProducts(context.Background(), items, models.Timeframe1M)
	assert.Len(t, report.Products, 99, "one bad item never aborts the run")
}

func TestAggregateProductsZeroRevenueGuards(t *testing.T) {
	provider := &stubSeriesProvider{series: map[string][]models.SalesRecord{
		"free": flatSeries(10, 0, 0, 5), // unit_price 0
	}}
	aggregator := NewBulkAggregator(provider, bulkLogger())

	report := aggregator.AggregateProducts(context.Background(),
		[]models.Item{{ID: "free", Name: "Free", AvgDailySales: 10}}, models.Timeframe1M)
	require.Len(t, report.Products, 1)
	assert.Zero(t, report.Products[0].ProfitMargin)
	assert.Equal(t, models.LevelLow, report.Products[0].ProfitLevel)
}

func TestAggregateCategoriesGroupsAndClassifies(t *testing.T) {
	provider := &stubSeriesProvider{series: map[string][]models.SalesRecord{
		"a1": flatSeries(10, 200, 80, 10),
		"a2": flatSeries(8, 100, 40, 10),
		"b1": flatSeries(3, 30, 3, 10),
	}}
	aggregator := NewBulkAggregator(provider, bulkLogger())

	categories := []models.Category{
		{ID: "c-a", Name: "Antibiotics"},
		{ID: "c-b", Name: "Bandages"},
		{ID: "c-empty", Name: "Empty"},
	}
	items := []models.Item{
		{ID: "a1", Name: "A1", CategoryName: "Antibiotics", AvgDailySales: 10},
		{ID: "a2", Name: "A2", CategoryName: "Antibiotics", AvgDailySales: 8},
		{ID: "b1", Name: "B1", CategoryName: "Bandages", AvgDailySales: 3},
	}

	report := aggregator.AggregateCategories(context.Background(), categories, items, models.Timeframe1M)
	require.Len(t, report.Categories, 2, "empty categories are omitted")

	antibiotics := report.Categories[0]
	assert.Equal(t, "Antibiotics", antibiotics.Name)
	assert.Equal(t, 2, antibiotics.ProductCount)
	assert.InDelta(t, 18.0, antibiotics.AvgDailySales, 1e-9)
	assert.InDelta(t, 300.0, antibiotics.AvgDailyRevenue, 1e-9)
	assert.Equal(t, models.MovementFast, antibiotics.DemandLevel)
	assert.Equal(t, models.LevelHigh, antibiotics.ProfitLevel) // 120/300 = 40%

	bandages := report.Categories[1]
	assert.Equal(t, models.MovementSlow, bandages.DemandLevel)
	assert.Equal(t, models.LevelLow, bandages.ProfitLevel)

	assert.Equal(t, 3, report.TotalProducts)
	assert.InDelta(t, 330.0, report.TotalRevenue, 1e-9)
}
