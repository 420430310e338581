package services

import (
	"math"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// Analyzer turns a sales series into the narrative panel: demand and profit
// classification, accuracy commentary, and an ordered recommendation list.
// All thresholds are absolute unit counts scaled to the timeframe's period.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// demandThresholds are the High/Medium cut points per timeframe, scaled
// linearly from the daily pair (15, 8) by the period's day multiplier.
type demandThresholds struct {
	high   float64
	medium float64
}

// Analyze classifies the most recent window of the series. accuracy is the
// externally reported model accuracy percentage, nil when unknown.
func (a *Analyzer) Analyze(records []models.SalesRecord, tf models.Timeframe, item models.Item, accuracy *float64) *models.AnalysisResult {
	if len(records) == 0 {
		return nil
	}

	// Most recent 7 samples drive every window metric.
	window := records
	if len(window) > 7 {
		window = window[len(window)-7:]
	}

	salesWindow := make([]int, len(window))
	minSales := window[0].Sales
	maxSales := window[0].Sales
	for i, r := range window {
		salesWindow[i] = r.Sales
		if r.Sales < minSales {
			minSales = r.Sales
		}
		if r.Sales > maxSales {
			maxSales = r.Sales
		}
	}
	avgSales := calculateMeanInt(salesWindow)

	salesTrend := models.TrendDecreasing
	if window[len(window)-1].Sales > window[0].Sales {
		salesTrend = models.TrendIncreasing
	}

	demandLevel, demandExplanation := classifyDemand(tf, avgSales)

	var profitMargin float64
	if item.UnitPrice != 0 {
		profitMargin = (item.UnitPrice - item.CostPrice) / item.UnitPrice * 100
	}

	return &models.AnalysisResult{
		DemandLevel:         demandLevel,
		DemandExplanation:   demandExplanation,
		AccuracyExplanation: accuracyExplanation(accuracy),
		ProfitExplanation:   profitExplanation(profitMargin),
		Recommendations:     buildRecommendations(tf, demandLevel, profitMargin, salesTrend),
		TimeframeContext:    timeframeContext(tf),
		KeyMetrics: models.KeyMetrics{
			AverageSales: int(math.Round(avgSales)),
			SalesTrend:   salesTrend,
			Volatility:   maxSales - minSales,
			ProfitMargin: int(math.Round(profitMargin)),
		},
	}
}

func classifyDemand(tf models.Timeframe, avgSales float64) (models.Level, string) {
	switch tf {
	case models.Timeframe1H:
		return pickDemand(avgSales, demandThresholds{3, 1},
			"High hourly demand - this is a peak hour product. Consider extra staffing during these hours.",
			"Moderate hourly demand - normal business hours performance.",
			"Low hourly demand - consider promotional campaigns during off-peak hours.")
	case models.Timeframe4H:
		return pickDemand(avgSales, demandThresholds{12, 4},
			"High demand during 4-hour blocks - this product sells well in shifts. Plan inventory accordingly.",
			"Steady demand across 4-hour periods - consistent performance.",
			"Low demand in 4-hour blocks - review timing and marketing strategy.")
	case models.Timeframe1D:
		return pickDemand(avgSales, demandThresholds{15, 8},
			"High daily demand - fast-moving product. Consider increasing inventory levels.",
			"Moderate daily demand - monitor for trends and seasonal changes.",
			"Low daily demand - needs marketing attention and promotional campaigns.")
	case models.Timeframe7D:
		return pickDemand(avgSales, demandThresholds{105, 56},
			"High weekly demand - excellent weekly performance. Plan for consistent weekly restocking.",
			"Moderate weekly demand - monitor weekly patterns for optimization.",
			"Low weekly demand - review weekly marketing and promotional strategies.")
	case models.Timeframe1M:
		return pickDemand(avgSales, demandThresholds{450, 240},
			"High monthly demand - strong monthly performance. Plan monthly inventory cycles.",
			"Moderate monthly demand - track monthly trends for seasonal adjustments.",
			"Low monthly demand - needs monthly marketing strategy review.")
	case models.Timeframe3M:
		return pickDemand(avgSales, demandThresholds{1350, 720},
			"High quarterly demand - excellent quarterly performance. Plan quarterly business reviews.",
			"Moderate quarterly demand - monitor quarterly trends for strategic planning.",
			"Low quarterly demand - requires quarterly strategy overhaul.")
	case models.Timeframe1Y:
		return pickDemand(avgSales, demandThresholds{5400, 2880},
			"High annual demand - outstanding yearly performance. Plan annual growth strategies.",
			"Moderate annual demand - track yearly trends for long-term planning.",
			"Low annual demand - needs annual strategy review and market analysis.")
	default:
		return pickDemand(avgSales, demandThresholds{15, 8},
			"High demand product - consider increasing inventory.",
			"Moderate demand - monitor closely for trends.",
			"Low demand - needs marketing attention.")
	}
}

func pickDemand(avgSales float64, t demandThresholds, high, medium, low string) (models.Level, string) {
	switch {
	case avgSales >= t.high:
		return models.LevelHigh, high
	case avgSales >= t.medium:
		return models.LevelMedium, medium
	default:
		return models.LevelLow, low
	}
}

func accuracyExplanation(accuracy *float64) string {
	if accuracy == nil {
		return ""
	}
	switch acc := *accuracy; {
	case acc >= 90:
		return "Excellent! Our predictions are very reliable for this product."
	case acc >= 75:
		return "Good predictions. The forecast is reasonably accurate."
	case acc >= 50:
		return "Fair predictions. Consider reviewing the data or model."
	default:
		return "Poor predictions. The forecast may not be reliable."
	}
}

func profitExplanation(profitMargin float64) string {
	switch {
	case profitMargin > 30:
		return "High profit margin. This product is very profitable."
	case profitMargin > 15:
		return "Good profit margin. This product is profitable."
	default:
		return "Low profit margin. Consider reviewing pricing strategy."
	}
}

// buildRecommendations concatenates timeframe/demand, profit, and trend
// phrases in that order. The list is intentionally never deduplicated.
func buildRecommendations(tf models.Timeframe, demandLevel models.Level, profitMargin float64, salesTrend models.TrendDirection) []string {
	recommendations := []string{}

	switch tf {
	case models.Timeframe1H:
		if demandLevel == models.LevelHigh {
			recommendations = append(recommendations,
				"Schedule extra staff during peak hours",
				"Ensure adequate inventory for high-demand hours",
				"Consider promotional pricing during off-peak hours")
		} else if demandLevel == models.LevelLow {
			recommendations = append(recommendations,
				"Implement hourly promotions during slow periods",
				"Review product placement and visibility",
				"Consider bundling with popular items")
		}
	case models.Timeframe4H:
		if demandLevel == models.LevelHigh {
			recommendations = append(recommendations,
				"Plan shift-based inventory management",
				"Optimize staff scheduling for high-demand periods",
				"Consider bulk pricing for shift-based sales")
		} else if demandLevel == models.LevelLow {
			recommendations = append(recommendations,
				"Implement 4-hour promotional campaigns",
				"Review shift-based marketing strategies",
				"Consider time-limited offers")
		}
	case models.Timeframe1D:
		if demandLevel == models.LevelHigh {
			recommendations = append(recommendations,
				"Increase daily inventory levels",
				"Implement daily restocking procedures",
				"Consider daily promotional campaigns")
		} else if demandLevel == models.LevelLow {
			recommendations = append(recommendations,
				"Launch daily promotional campaigns",
				"Review daily marketing strategies",
				"Consider daily bundle offers")
		}
	case models.Timeframe7D:
		if demandLevel == models.LevelHigh {
			recommendations = append(recommendations,
				"Plan weekly inventory cycles",
				"Implement weekly promotional strategies",
				"Schedule weekly performance reviews")
		} else if demandLevel == models.LevelLow {
			recommendations = append(recommendations,
				"Launch weekly promotional campaigns",
				"Review weekly marketing calendar",
				"Consider weekly loyalty programs")
		}
	case models.Timeframe1M:
		if demandLevel == models.LevelHigh {
			recommendations = append(recommendations,
				"Plan monthly inventory procurement",
				"Implement monthly promotional calendars",
				"Schedule monthly business reviews")
		} else if demandLevel == models.LevelLow {
			recommendations = append(recommendations,
				"Develop monthly marketing campaigns",
				"Review monthly pricing strategies",
				"Consider monthly subscription models")
		}
	case models.Timeframe3M:
		if demandLevel == models.LevelHigh {
			recommendations = append(recommendations,
				"Plan quarterly inventory strategies",
				"Implement quarterly promotional campaigns",
				"Schedule quarterly business planning")
		} else if demandLevel == models.LevelLow {
			recommendations = append(recommendations,
				"Develop quarterly marketing strategies",
				"Review quarterly pricing models",
				"Consider quarterly market analysis")
		}
	case models.Timeframe1Y:
		if demandLevel == models.LevelHigh {
			recommendations = append(recommendations,
				"Plan annual growth strategies",
				"Implement yearly promotional calendars",
				"Schedule annual business planning")
		} else if demandLevel == models.LevelLow {
			recommendations = append(recommendations,
				"Develop annual marketing strategies",
				"Review yearly pricing models",
				"Consider annual market repositioning")
		}
	}

	if profitMargin > 20 {
		recommendations = append(recommendations,
			"High profit margin - consider expanding this product line")
	} else if profitMargin < 15 {
		recommendations = append(recommendations,
			"Low profit margin - review cost structure and pricing",
			"Consider negotiating better supplier terms")
	}

	if salesTrend == models.TrendDecreasing {
		recommendations = append(recommendations,
			"Sales are declining - investigate market conditions",
			"Consider promotional campaigns to reverse the trend")
	} else {
		recommendations = append(recommendations,
			"Sales are growing - maintain current strategy",
			"Consider expanding inventory to meet growing demand")
	}

	return recommendations
}

func timeframeContext(tf models.Timeframe) models.TimeframeContext {
	switch tf {
	case models.Timeframe1H:
		return models.TimeframeContext{
			Period:      "hourly",
			Unit:        "per hour",
			Description: "This chart shows sales data for each hour of the day",
			Analysis:    "Hourly patterns help identify peak shopping times and staffing needs",
		}
	case models.Timeframe4H:
		return models.TimeframeContext{
			Period:      "4-hour intervals",
			Unit:        "per 4 hours",
			Description: "This chart shows sales data in 4-hour blocks",
			Analysis:    "4-hour intervals reveal daily patterns and help with shift planning",
		}
	case models.Timeframe1D:
		return models.TimeframeContext{
			Period:      "daily",
			Unit:        "per day",
			Description: "This chart shows daily sales performance",
			Analysis:    "Daily trends help track overall product performance and demand",
		}
	case models.Timeframe7D:
		return models.TimeframeContext{
			Period:      "weekly",
			Unit:        "per week",
			Description: "This chart shows weekly sales patterns",
			Analysis:    "Weekly patterns help identify seasonal trends and weekly cycles",
		}
	case models.Timeframe1M:
		return models.TimeframeContext{
			Period:      "monthly",
			Unit:        "per month",
			Description: "This chart shows monthly sales performance",
			Analysis:    "Monthly trends help with inventory planning and seasonal adjustments",
		}
	case models.Timeframe3M:
		return models.TimeframeContext{
			Period:      "quarterly",
			Unit:        "per quarter",
			Description: "This chart shows quarterly sales performance",
			Analysis:    "Quarterly trends help with long-term planning and seasonal analysis",
		}
	case models.Timeframe1Y:
		return models.TimeframeContext{
			Period:      "yearly",
			Unit:        "per year",
			Description: "This chart shows yearly sales performance",
			Analysis:    "Yearly trends help with annual planning and long-term strategy",
		}
	default:
		return models.TimeframeContext{
			Period:      "daily",
			Unit:        "per day",
			Description: "This chart shows sales performance",
			Analysis:    "Track performance trends over time",
		}
	}
}
