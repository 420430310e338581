package services

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// BaselineForecaster is the last-resort forecast source, used only when the
// external service stays down after the retrain-and-retry attempt. Callers
// must always be able to render a chart, backend or not.
type BaselineForecaster struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBaselineForecaster creates a forecaster. A non-zero seed makes output
// reproducible for tests; seed 0 uses the clock.
func NewBaselineForecaster(seed int64) *BaselineForecaster {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &BaselineForecaster{rng: rand.New(rand.NewSource(seed))}
}

// Build produces horizonDays values around the item's average daily rate with
// a weekly sinusoid and light jitter, dated consecutively from tomorrow.
func (f *BaselineForecaster) Build(avgDailySales float64, horizonDays int, now time.Time) *models.ForecastResult {
	base := math.Max(1, math.Round(avgDailySales))

	values := make([]float64, horizonDays)
	dates := make([]string, horizonDays)
	for i := 0; i < horizonDays; i++ {
		weekly := 1 + 0.05*math.Sin(2*math.Pi*float64(i)/7)
		jitter := 0.95 + f.random()*0.1
		values[i] = math.Max(0, math.Round(base*weekly*jitter))
		dates[i] = now.AddDate(0, 0, i+1).Format("2006-01-02")
	}

	return &models.ForecastResult{Values: values, Dates: dates}
}

func (f *BaselineForecaster) random() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Float64()
}
