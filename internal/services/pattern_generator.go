package services

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// PatternGenerator synthesizes a smoothed, seasonally-varying sales series for
// an item when no real history is available. Pharmacy demand is stable, so the
// noise-free pattern dominates the blend and a moving-average pass flattens
// what variation remains.
type PatternGenerator struct {
	logger *logrus.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPatternGenerator creates a generator. A non-zero seed makes output
// reproducible for tests; seed 0 uses the clock.
func NewPatternGenerator(logger *logrus.Logger, seed int64) *PatternGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PatternGenerator{
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (g *PatternGenerator) random() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

// Generate produces the synthetic sales series for an item at a timeframe,
// anchored so the last sample date is now and the first is windowDays before.
func (g *PatternGenerator) Generate(item models.Item, tf models.Timeframe, now time.Time) []models.SalesRecord {
	window := ResolveTimeframe(tf)

	baseSales := item.AvgDailySales
	basePrice := item.UnitPrice
	baseCost := item.CostPrice

	// Items without real sales data get minimal defaults keyed on drug form.
	if baseSales == 0 {
		name := strings.ToLower(item.Name)
		switch {
		case strings.Contains(name, "tablet") || strings.Contains(name, "capsule"):
			return g.generateDefaultSeries(5, fallback(basePrice, 50), fallback(baseCost, 30), window, now)
		case strings.Contains(name, "syrup") || strings.Contains(name, "suspension"):
			return g.generateDefaultSeries(3, fallback(basePrice, 80), fallback(baseCost, 50), window, now)
		default:
			return g.generateDefaultSeries(2, fallback(basePrice, 100), fallback(baseCost, 70), window, now)
		}
	}

	totalSamples := window.SampleCount()
	start := window.Start(now)
	interval := window.Interval()

	// Raw per-sample sales from the multiplicative pattern.
	rawSales := make([]int, totalSamples)
	for i := 0; i < totalSamples; i++ {
		pattern := g.salesPattern(i, totalSamples)
		rawSales[i] = int(math.Max(0, math.Round(baseSales*pattern)))
	}

	smoothed := smoothSeries(rawSales)

	records := make([]models.SalesRecord, 0, totalSamples)
	for i := 0; i < totalSamples; i++ {
		date := start.Add(time.Duration(i) * interval)
		sales := smoothed[i]

		// Prices are stable in pharmacy retail; only volume varies.
		revenue := roundMoney(float64(sales) * basePrice)
		cost := roundMoney(float64(sales) * baseCost)
		profit := roundMoney(revenue - cost)
		margin := roundMoney(profitMarginPercent(profit, revenue))

		record := models.SalesRecord{
			Date:         date,
			Timestamp:    date.UnixMilli(),
			Sales:        sales,
			Revenue:      revenue,
			Cost:         cost,
			Profit:       profit,
			ProfitMargin: margin,
			UnitPrice:    roundMoney(basePrice),
			UnitCost:     roundMoney(baseCost),
			DemandLevel:  relativeDemandLevel(float64(sales), baseSales),
			ProfitLevel:  profitLevel(margin),
		}

		if i > 7 {
			prev := records[i-7]
			record.SalesChange = clampPercent(percentChange(float64(sales), float64(prev.Sales)))
			record.ProfitChange = clampPercent(percentChange(profit, prev.Profit))
		}

		records = append(records, record)
	}

	if g.logger != nil {
		g.logger.WithFields(logrus.Fields{
			"item":      item.ID,
			"timeframe": tf,
			"samples":   len(records),
		}).Debug("Generated synthetic sales series")
	}

	return records
}

// salesPattern combines weekend damping, monthly and seasonal sinusoids, a
// mild growth trend, and lightly blended noise into one multiplicative factor.
func (g *PatternGenerator) salesPattern(i, totalSamples int) float64 {
	dayOfWeek := i % 7
	weekOfMonth := (i / 7) % 4
	monthOfYear := (i / 30) % 12

	weekendEffect := 1.0
	if dayOfWeek == 0 || dayOfWeek == 6 {
		weekendEffect = 0.8
	}

	monthlyEffect := 1 + 0.05*math.Sin(float64(weekOfMonth-1)*math.Pi/2)
	seasonalEffect := 1 + 0.1*math.Sin(float64(monthOfYear-2)*math.Pi/6)
	trendEffect := 1 + (float64(i)/float64(totalSamples))*0.05
	randomEffect := 0.98 + g.random()*0.04

	// 80% smooth, 20% noisy.
	const smoothingFactor = 0.8
	basePattern := weekendEffect * monthlyEffect * seasonalEffect * trendEffect
	return basePattern*smoothingFactor + (basePattern*randomEffect)*(1-smoothingFactor)
}

// generateDefaultSeries builds the reduced series for items with no sales
// rate: a small flat base with minimal variation and no seasonal pattern.
func (g *PatternGenerator) generateDefaultSeries(baseSales, basePrice, baseCost float64, window TimeframeWindow, now time.Time) []models.SalesRecord {
	totalSamples := window.SampleCount()
	start := window.Start(now)
	interval := window.Interval()

	records := make([]models.SalesRecord, 0, totalSamples)
	for i := 0; i < totalSamples; i++ {
		date := start.Add(time.Duration(i) * interval)
		sales := int(math.Max(1, math.Round(baseSales*(0.8+g.random()*0.4))))

		revenue := roundMoney(float64(sales) * basePrice)
		cost := roundMoney(float64(sales) * baseCost)
		profit := roundMoney(revenue - cost)
		margin := roundMoney(profitMarginPercent(profit, revenue))

		demand := models.LevelLow
		if sales > 5 {
			demand = models.LevelHigh
		} else if sales > 2 {
			demand = models.LevelMedium
		}

		records = append(records, models.SalesRecord{
			Date:         date,
			Timestamp:    date.UnixMilli(),
			Sales:        sales,
			Revenue:      revenue,
			Cost:         cost,
			Profit:       profit,
			ProfitMargin: margin,
			UnitPrice:    basePrice,
			UnitCost:     baseCost,
			DemandLevel:  demand,
			ProfitLevel:  profitLevel(margin),
		})
	}

	return records
}

// smoothSeries applies a centered moving average with an adaptive window,
// rounding each output back to an integer.
func smoothSeries(raw []int) []int {
	total := len(raw)
	windowSize := int(math.Min(3, math.Floor(float64(total)/10)))

	smoothed := make([]int, total)
	for i := 0; i < total; i++ {
		sum := 0
		count := 0
		for j := max(0, i-windowSize); j <= min(total-1, i+windowSize); j++ {
			sum += raw[j]
			count++
		}
		smoothed[i] = int(math.Round(float64(sum) / float64(count)))
	}
	return smoothed
}

// relativeDemandLevel classifies one synthetic sample against ±20% of the
// item's base daily rate. Real observations use the absolute scale in the
// normalizer instead.
func relativeDemandLevel(sales, baseSales float64) models.Level {
	switch {
	case sales > baseSales*1.2:
		return models.LevelHigh
	case sales > baseSales*0.8:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

func profitLevel(margin float64) models.Level {
	switch {
	case margin > 30:
		return models.LevelHigh
	case margin > 15:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

func fallback(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
