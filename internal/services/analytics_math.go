package services

import (
	"math"

	"github.com/shopspring/decimal"
)

func calculateMeanFloat64(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func calculateMeanInt(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// roundMoney rounds a currency amount to 2 decimal places.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// clampPercent bounds a percentage delta to [-50, 50].
func clampPercent(v float64) float64 {
	return math.Max(-50, math.Min(50, v))
}

// percentChange is the percent delta vs. a prior value, 0 when the prior is 0.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// profitMarginPercent guards the zero-revenue case.
func profitMarginPercent(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue * 100
}
