package models

// MovementLevel classifies how fast an item turns over in bulk reports.
type MovementLevel string

const (
	MovementFast   MovementLevel = "Fast"
	MovementMedium MovementLevel = "Medium"
	MovementSlow   MovementLevel = "Slow"
)

// BulkProductRow is one product's averaged forecast in a bulk run.
type BulkProductRow struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	AvgDailySales   float64       `json:"avg_daily_sales"`
	AvgDailyRevenue float64       `json:"avg_daily_revenue"`
	AvgDailyProfit  float64       `json:"avg_daily_profit"`
	ProfitMargin    float64       `json:"profit_margin"`
	DemandLevel     MovementLevel `json:"demand_level"`
	ProfitLevel     Level         `json:"profit_level"`
}

// BulkProductReport aggregates every forecastable product at one timeframe.
type BulkProductReport struct {
	Products     []BulkProductRow `json:"products"`
	TotalRevenue float64          `json:"total_revenue"`
	TotalProfit  float64          `json:"total_profit"`
	FastMoving   int              `json:"fast_moving"`
	SlowMoving   int              `json:"slow_moving"`
	HighProfit   int              `json:"high_profit"`
	LowProfit    int              `json:"low_profit"`
}

// BulkCategoryRow sums a category's products and classifies the group on the
// same scale as individual products.
type BulkCategoryRow struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	ProductCount    int           `json:"product_count"`
	AvgDailySales   float64       `json:"avg_daily_sales"`
	AvgDailyRevenue float64       `json:"avg_daily_revenue"`
	AvgDailyProfit  float64       `json:"avg_daily_profit"`
	ProfitMargin    float64       `json:"profit_margin"`
	DemandLevel     MovementLevel `json:"demand_level"`
	ProfitLevel     Level         `json:"profit_level"`
}

// BulkCategoryReport aggregates every category at one timeframe.
type BulkCategoryReport struct {
	Categories    []BulkCategoryRow `json:"categories"`
	TotalRevenue  float64           `json:"total_revenue"`
	TotalProfit   float64           `json:"total_profit"`
	TotalProducts int               `json:"total_products"`
}
