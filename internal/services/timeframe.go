package services

import (
	"math"
	"time"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// TimeframeWindow is the sampling window a timeframe token resolves to.
type TimeframeWindow struct {
	WindowDays   float64
	IntervalDays float64
}

// timeframeWindows is the authoritative token table. Sub-day tokens shrink the
// window and the interval together so the sample count stays chartable.
var timeframeWindows = map[models.Timeframe]TimeframeWindow{
	models.Timeframe1H: {WindowDays: 7, IntervalDays: 0.04},
	models.Timeframe4H: {WindowDays: 14, IntervalDays: 0.17},
	models.Timeframe1D: {WindowDays: 30, IntervalDays: 1},
	models.Timeframe7D: {WindowDays: 90, IntervalDays: 1},
	models.Timeframe1M: {WindowDays: 90, IntervalDays: 1},
	models.Timeframe3M: {WindowDays: 180, IntervalDays: 1},
	models.Timeframe1Y: {WindowDays: 365, IntervalDays: 1},
}

// ResolveTimeframe maps a timeframe token to its sampling window. Unknown
// tokens fall back to the daily default (30, 1).
func ResolveTimeframe(tf models.Timeframe) TimeframeWindow {
	if w, ok := timeframeWindows[tf]; ok {
		return w
	}
	return TimeframeWindow{WindowDays: 30, IntervalDays: 1}
}

// SampleCount returns how many samples the window yields.
func (w TimeframeWindow) SampleCount() int {
	return int(math.Ceil(w.WindowDays / w.IntervalDays))
}

// Interval returns the spacing between samples as a duration.
func (w TimeframeWindow) Interval() time.Duration {
	return time.Duration(w.IntervalDays * float64(24*time.Hour))
}

// Start returns the date of the first sample when the last sample is "now".
func (w TimeframeWindow) Start(now time.Time) time.Time {
	return now.AddDate(0, 0, -int(w.WindowDays))
}
