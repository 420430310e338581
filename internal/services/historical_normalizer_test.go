package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeSortsAscendingByTimestamp(t *testing.T) {
	n := NewHistoricalNormalizer()

	// Upstream ordering is not guaranteed.
	observations := []models.HistoricalObservation{
		{Date: "2026-08-03", Quantity: 12},
		{Date: "2026-08-01", Quantity: 10},
		{Date: "2026-08-02", Quantity: 11},
	}

	records, err := n.Normalize(observations, testItem())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 10, records[0].Sales)
	assert.Equal(t, 11, records[1].Sales)
	assert.Equal(t, 12, records[2].Sales)
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i].Timestamp, records[i-1].Timestamp)
	}
}

func TestNormalizeDerivesRevenueAndCostFromUnitEconomics(t *testing.T) {
	n := NewHistoricalNormalizer()
	item := testItem() // price 12.50, cost 8.00

	records, err := n.Normalize([]models.HistoricalObservation{
		{Date: "2026-08-01", Quantity: 10},
	}, item)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 125.0, records[0].Revenue)
	assert.Equal(t, 80.0, records[0].Cost)
	assert.Equal(t, 45.0, records[0].Profit)
}

func TestNormalizeUsesExplicitRevenueAndCost(t *testing.T) {
	n := NewHistoricalNormalizer()

	records, err := n.Normalize([]models.HistoricalObservation{
		{Date: "2026-08-01", Quantity: 10, Revenue: floatPtr(200), Cost: floatPtr(90)},
	}, testItem())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 200.0, records[0].Revenue)
	assert.Equal(t, 90.0, records[0].Cost)
	assert.Equal(t, 110.0, records[0].Profit)
}

func TestNormalizeAbsoluteDemandThresholds(t *testing.T) {
	n := NewHistoricalNormalizer()

	records, err := n.Normalize([]models.HistoricalObservation{
		{Date: "2026-08-01", Quantity: 16},
		{Date: "2026-08-02", Quantity: 15},
		{Date: "2026-08-03", Quantity: 8},
		{Date: "2026-08-04", Quantity: 7},
	}, testItem())
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, models.LevelHigh, records[0].DemandLevel)
	assert.Equal(t, models.LevelMedium, records[1].DemandLevel, "15 is not above the High cut")
	assert.Equal(t, models.LevelMedium, records[2].DemandLevel)
	assert.Equal(t, models.LevelLow, records[3].DemandLevel)
}

func TestNormalizeRejectsUnparsableDate(t *testing.T) {
	n := NewHistoricalNormalizer()

	_, err := n.Normalize([]models.HistoricalObservation{
		{Date: "yesterday", Quantity: 1},
	}, testItem())
	assert.Error(t, err)
}

func TestNormalizeAcceptsDatetimeFormats(t *testing.T) {
	n := NewHistoricalNormalizer()

	records, err := n.Normalize([]models.HistoricalObservation{
		{Date: "2026-08-01T10:30:00Z", Quantity: 5},
		{Date: "2026-08-02 09:15:00", Quantity: 6},
	}, testItem())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
