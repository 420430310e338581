package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

func testGenerator() *PatternGenerator {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewPatternGenerator(logger, 42)
}

func testItem() models.Item {
	return models.Item{
		ID:            "p-1",
		Name:          "Paracetamol 500mg",
		CategoryName:  "Analgesics",
		AvgDailySales: 20,
		UnitPrice:     12.50,
		CostPrice:     8.00,
	}
}

func TestGenerateSeriesLength(t *testing.T) {
	g := testGenerator()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	for _, tf := range models.AllTimeframes {
		records := g.Generate(testItem(), tf, now)
		assert.Len(t, records, ResolveTimeframe(tf).SampleCount(), "timeframe %s", tf)
	}
}

func TestGenerateSeriesStrictlyAscendingTimestamps(t *testing.T) {
	g := testGenerator()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	for _, tf := range models.AllTimeframes {
		records := g.Generate(testItem(), tf, now)
		for i := 1; i < len(records); i++ {
			assert.Greater(t, records[i].Timestamp, records[i-1].Timestamp,
				"timeframe %s index %d", tf, i)
		}
	}
}

func TestGenerateSeriesReproducibleWithSeed(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	a := testGenerator().Generate(testItem(), models.Timeframe1M, now)
	b := testGenerator().Generate(testItem(), models.Timeframe1M, now)
	assert.Equal(t, a, b)
}

func TestGenerateSeriesUnitEconomics(t *testing.T) {
	g := testGenerator()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	item := testItem()

	records := g.Generate(item, models.Timeframe1M, now)
	require.NotEmpty(t, records)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.Sales, 0)
		assert.Equal(t, roundMoney(float64(r.Sales)*item.UnitPrice), r.Revenue)
		assert.Equal(t, roundMoney(float64(r.Sales)*item.CostPrice), r.Cost)
		assert.Equal(t, roundMoney(r.Revenue-r.Cost), r.Profit)
	}
}

func TestGenerateSeriesChangesClampedAndWindowed(t *testing.T) {
	g := testGenerator()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	records := g.Generate(testItem(), models.Timeframe1M, now)
	require.Greater(t, len(records), 8)

	// No week-back reference exists for the first 8 samples.
	for i := 0; i <= 7; i++ {
		assert.Zero(t, records[i].SalesChange)
		assert.Zero(t, records[i].ProfitChange)
	}
	for _, r := range records {
		assert.GreaterOrEqual(t, r.SalesChange, -50.0)
		assert.LessOrEqual(t, r.SalesChange, 50.0)
		assert.GreaterOrEqual(t, r.ProfitChange, -50.0)
		assert.LessOrEqual(t, r.ProfitChange, 50.0)
	}
}

func TestSalesPatternWeekendDamping(t *testing.T) {
	g := testGenerator()

	// The raw pattern, before the moving-average pass flattens the weekly
	// cycle, carries the 0.8x weekend factor.
	var weekend, weekday []float64
	for i := 0; i < 90; i++ {
		v := g.salesPattern(i, 90)
		if day := i % 7; day == 0 || day == 6 {
			weekend = append(weekend, v)
		} else {
			weekday = append(weekday, v)
		}
	}
	assert.Less(t, calculateMeanFloat64(weekend), calculateMeanFloat64(weekday))
}

func TestGenerateDefaultDataForZeroSalesRate(t *testing.T) {
	g := testGenerator()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		maxSales int
	}{
		{"Amoxicillin Tablet", 8},    // 5-unit base
		{"Cough Syrup 100ml", 5},     // 3-unit base
		{"Thermometer Digital", 3},   // generic 2-unit base
		{"Ibuprofen Capsule 200", 8}, // capsule matches the tablet tier
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.Item{ID: "z-1", Name: tt.name, AvgDailySales: 0}
			records := g.Generate(item, models.Timeframe1M, now)
			require.Len(t, records, 90)

			for _, r := range records {
				assert.Positive(t, r.Sales, "default data never yields zero sales")
				assert.LessOrEqual(t, r.Sales, tt.maxSales)
				assert.Zero(t, r.SalesChange)
			}
		})
	}
}

func TestGenerateDefaultDataPriceFallbacks(t *testing.T) {
	g := testGenerator()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	item := models.Item{ID: "z-2", Name: "Amoxicillin Tablet", AvgDailySales: 0}
	records := g.Generate(item, models.Timeframe1D, now)
	require.NotEmpty(t, records)

	// Tablet tier defaults: price 50, cost 30.
	first := records[0]
	assert.Equal(t, 50.0, first.UnitPrice)
	assert.Equal(t, 30.0, first.UnitCost)
	assert.Equal(t, roundMoney(float64(first.Sales)*50), first.Revenue)
}

func TestGenerateDefaultDataKeepsExplicitPrices(t *testing.T) {
	g := testGenerator()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	item := models.Item{ID: "z-3", Name: "Cough Syrup", AvgDailySales: 0, UnitPrice: 95, CostPrice: 60}
	records := g.Generate(item, models.Timeframe1D, now)
	require.NotEmpty(t, records)
	assert.Equal(t, 95.0, records[0].UnitPrice)
	assert.Equal(t, 60.0, records[0].UnitCost)
}
