package models

// Item represents a forecastable catalog entry (a product or a category
// aggregate). Items are owned by the catalog service and immutable here.
type Item struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CategoryName  string  `json:"category_name,omitempty"`
	AvgDailySales float64 `json:"avg_daily_sales"`
	UnitPrice     float64 `json:"unit_price"`
	CostPrice     float64 `json:"cost_price"`
}

// Category groups catalog items by name for bulk aggregation.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Margin returns the unit profit margin percentage, 0 when the item has no
// price.
func (i Item) Margin() float64 {
	if i.UnitPrice == 0 {
		return 0
	}
	return (i.UnitPrice - i.CostPrice) / i.UnitPrice * 100
}
