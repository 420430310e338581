package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineForecastShape(t *testing.T) {
	f := NewBaselineForecaster(7)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	result := f.Build(10, 30, now)
	require.Len(t, result.Values, 30)
	require.Len(t, result.Dates, 30)

	for i, v := range result.Values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Equal(t, math.Trunc(v), v, "values are whole units")

		expected := now.AddDate(0, 0, i+1).Format("2006-01-02")
		assert.Equal(t, expected, result.Dates[i], "consecutive days starting tomorrow")
	}
}

func TestBaselineForecastFloorsBaseAtOne(t *testing.T) {
	f := NewBaselineForecaster(7)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	result := f.Build(0.2, 14, now)
	require.Len(t, result.Values, 14)
	for _, v := range result.Values {
		// Base 1 with the weekly sinusoid and jitter stays near one unit.
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 2.0)
	}
}

func TestBaselineForecastReproducibleWithSeed(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	a := NewBaselineForecaster(99).Build(10, 30, now)
	b := NewBaselineForecaster(99).Build(10, 30, now)
	assert.Equal(t, a, b)
}
