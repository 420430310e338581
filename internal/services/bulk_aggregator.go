package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// SeriesProvider produces the sales-record sequence for an item, preferring
// cached real history over the synthetic generator.
type SeriesProvider interface {
	SeriesFor(ctx context.Context, item models.Item, tf models.Timeframe) ([]models.SalesRecord, error)
}

// BulkAggregator runs the series pipeline over the whole catalog and
// classifies every product and category at one timeframe. A single item's
// failure never aborts the run; the item is skipped.
type BulkAggregator struct {
	series SeriesProvider
	logger *logrus.Logger
}

func NewBulkAggregator(series SeriesProvider, logger *logrus.Logger) *BulkAggregator {
	return &BulkAggregator{series: series, logger: logger}
}

// AggregateProducts builds the per-product bulk report. Items with a zero
// sales rate are skipped outright.
func (a *BulkAggregator) AggregateProducts(ctx context.Context, items []models.Item, tf models.Timeframe) *models.BulkProductReport {
	report := &models.BulkProductReport{Products: []models.BulkProductRow{}}

	for _, item := range items {
		if item.AvgDailySales <= 0 {
			continue
		}

		avgSales, avgRevenue, avgProfit, ok := a.itemAverages(ctx, item, tf)
		if !ok {
			continue
		}

		margin := 0.0
		if avgRevenue > 0 {
			margin = avgProfit / avgRevenue * 100
		}

		report.Products = append(report.Products, models.BulkProductRow{
			ID:              item.ID,
			Name:            item.Name,
			Category:        item.CategoryName,
			AvgDailySales:   avgSales,
			AvgDailyRevenue: avgRevenue,
			AvgDailyProfit:  avgProfit,
			ProfitMargin:    margin,
			DemandLevel:     movementLevel(avgSales),
			ProfitLevel:     bulkProfitLevel(margin),
		})

		report.TotalRevenue += avgRevenue
		report.TotalProfit += avgProfit
		if avgSales >= 15 {
			report.FastMoving++
		}
		if avgSales < 8 {
			report.SlowMoving++
		}
		if margin > 30 {
			report.HighProfit++
		} else {
			report.LowProfit++
		}
	}

	return report
}

// AggregateCategories groups products by category name, sums the per-item
// averages, and classifies each group on the product scale.
func (a *BulkAggregator) AggregateCategories(ctx context.Context, categories []models.Category, items []models.Item, tf models.Timeframe) *models.BulkCategoryReport {
	report := &models.BulkCategoryReport{Categories: []models.BulkCategoryRow{}}

	byCategory := make(map[string][]models.Item, len(categories))
	for _, item := range items {
		byCategory[item.CategoryName] = append(byCategory[item.CategoryName], item)
	}

	for _, category := range categories {
		group := byCategory[category.Name]
		if len(group) == 0 {
			continue
		}

		var sales, revenue, profit float64
		for _, item := range group {
			if item.AvgDailySales <= 0 {
				continue
			}
			avgSales, avgRevenue, avgProfit, ok := a.itemAverages(ctx, item, tf)
			if !ok {
				continue
			}
			sales += avgSales
			revenue += avgRevenue
			profit += avgProfit
		}

		margin := 0.0
		if revenue > 0 {
			margin = profit / revenue * 100
		}

		report.Categories = append(report.Categories, models.BulkCategoryRow{
			ID:              category.ID,
			Name:            category.Name,
			ProductCount:    len(group),
			AvgDailySales:   sales,
			AvgDailyRevenue: revenue,
			AvgDailyProfit:  profit,
			ProfitMargin:    margin,
			DemandLevel:     movementLevel(sales),
			ProfitLevel:     bulkProfitLevel(margin),
		})

		report.TotalRevenue += revenue
		report.TotalProfit += profit
		report.TotalProducts += len(group)
	}

	return report
}

func (a *BulkAggregator) itemAverages(ctx context.Context, item models.Item, tf models.Timeframe) (avgSales, avgRevenue, avgProfit float64, ok bool) {
	records, err := a.series.SeriesFor(ctx, item, tf)
	if err != nil || len(records) == 0 {
		if a.logger != nil {
			a.logger.WithFields(logrus.Fields{
				"item":      item.ID,
				"timeframe": tf,
			}).WithError(err).Warn("Skipping item in bulk aggregation")
		}
		return 0, 0, 0, false
	}

	sales := make([]float64, len(records))
	revenue := make([]float64, len(records))
	profit := make([]float64, len(records))
	for i, r := range records {
		sales[i] = float64(r.Sales)
		revenue[i] = r.Revenue
		profit[i] = r.Profit
	}
	return calculateMeanFloat64(sales), calculateMeanFloat64(revenue), calculateMeanFloat64(profit), true
}

func movementLevel(avgSales float64) models.MovementLevel {
	switch {
	case avgSales >= 15:
		return models.MovementFast
	case avgSales >= 8:
		return models.MovementMedium
	default:
		return models.MovementSlow
	}
}

func bulkProfitLevel(margin float64) models.Level {
	if margin > 30 {
		return models.LevelHigh
	}
	return models.LevelLow
}
