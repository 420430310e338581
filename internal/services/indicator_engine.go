package services

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

const (
	smaPeriod     = 20
	emaFastPeriod = 12
	emaSlowPeriod = 26
	rsiPeriod     = 14
)

// IndicatorEngine computes the technical panel over a sales (or profit)
// series. Every output point keeps the timestamp of the input sample it was
// computed at, so charts can re-key by date without recomputing.
type IndicatorEngine struct{}

func NewIndicatorEngine() *IndicatorEngine {
	return &IndicatorEngine{}
}

// Compute derives the full indicator set from a sales-record sequence. Series
// that need more samples than are available come back empty, never nil-padded.
func (e *IndicatorEngine) Compute(records []models.SalesRecord) models.IndicatorSet {
	closes := make([]float64, len(records))
	timestamps := make([]int64, len(records))
	volume := make([]models.IndicatorPoint, len(records))
	for i, r := range records {
		closes[i] = float64(r.Sales)
		timestamps[i] = r.Timestamp
		volume[i] = models.IndicatorPoint{Value: float64(r.Sales), Timestamp: r.Timestamp}
	}

	ema12 := exponentialMovingAverage(closes, emaFastPeriod)
	ema26 := exponentialMovingAverage(closes, emaSlowPeriod)

	return models.IndicatorSet{
		SMA20:  e.simpleMovingAverage(closes, timestamps, smaPeriod),
		EMA12:  keyToTimestamps(ema12, timestamps, 0),
		EMA26:  keyToTimestamps(ema26, timestamps, 0),
		RSI14:  relativeStrengthIndex(closes, timestamps, rsiPeriod),
		MACD:   macdLine(ema12, ema26, timestamps),
		Volume: volume,
	}
}

// simpleMovingAverage is a trailing mean; the first valid output lands at
// input index period-1, which is where the shortened library output re-keys.
func (e *IndicatorEngine) simpleMovingAverage(closes []float64, timestamps []int64, period int) []models.IndicatorPoint {
	if len(closes) < period {
		return nil
	}

	smaIndicator := trend.NewSmaWithPeriod[float64](period)
	result := helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(closes)))

	return keyToTimestamps(result, timestamps, period-1)
}

// exponentialMovingAverage seeds with the first value and emits one output
// per input, keeping index alignment with the raw close array. That full
// alignment is what MACD subtracts over, so the shortened library variant is
// not usable here.
func exponentialMovingAverage(closes []float64, period int) []float64 {
	if len(closes) == 0 {
		return nil
	}

	k := 2.0 / float64(period+1)
	out := make([]float64, len(closes))
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i]*k + out[i-1]*(1-k)
	}
	return out
}

// relativeStrengthIndex averages gains and losses over the trailing period
// deltas. The 0.001 loss floor guards division by zero on flat windows.
func relativeStrengthIndex(closes []float64, timestamps []int64, period int) []models.IndicatorPoint {
	if len(closes) <= period {
		return nil
	}

	points := make([]models.IndicatorPoint, 0, len(closes)-period)
	for i := period; i < len(closes); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gains += delta
			} else {
				losses += -delta
			}
		}

		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)
		rs := avgGain / math.Max(avgLoss, 0.001)
		rsi := 100 - 100/(1+rs)

		points = append(points, models.IndicatorPoint{Value: rsi, Timestamp: timestamps[i]})
	}
	return points
}

// macdLine subtracts the index-aligned EMAs, starting where the slow EMA has
// seen a full period of input.
func macdLine(ema12, ema26 []float64, timestamps []int64) []models.IndicatorPoint {
	start := emaSlowPeriod - 1
	if len(ema26) <= start {
		return nil
	}

	points := make([]models.IndicatorPoint, 0, len(ema26)-start)
	for i := start; i < len(ema26); i++ {
		points = append(points, models.IndicatorPoint{
			Value:     ema12[i] - ema26[i],
			Timestamp: timestamps[i],
		})
	}
	return points
}

// keyToTimestamps pairs a value series with timestamps, offsetting when the
// value series is shorter than the input it was derived from.
func keyToTimestamps(values []float64, timestamps []int64, offset int) []models.IndicatorPoint {
	points := make([]models.IndicatorPoint, 0, len(values))
	for i, v := range values {
		points = append(points, models.IndicatorPoint{Value: v, Timestamp: timestamps[i+offset]})
	}
	return points
}
