package models

import "time"

// Level is a coarse three-step classification used for both demand and profit.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// SalesRecord is one sample of the generated or observed sales series.
// Sequences of SalesRecord are always ordered ascending by Timestamp; every
// downstream consumer (indicators, charts, change calculations) relies on it.
type SalesRecord struct {
	Date         time.Time `json:"date"`
	Timestamp    int64     `json:"timestamp"` // epoch millis
	Sales        int       `json:"sales"`
	Revenue      float64   `json:"revenue"`
	Cost         float64   `json:"cost"`
	Profit       float64   `json:"profit"`
	ProfitMargin float64   `json:"profit_margin"`
	UnitPrice    float64   `json:"unit_price"`
	UnitCost     float64   `json:"unit_cost"`
	DemandLevel  Level     `json:"demand_level"`
	ProfitLevel  Level     `json:"profit_level"`
	SalesChange  float64   `json:"sales_change"`
	ProfitChange float64   `json:"profit_change"`
}

// HistoricalObservation is a raw per-interval sales observation returned by
// the forecasting backend. Revenue and Cost are optional; when absent they are
// derived from the item's unit economics.
type HistoricalObservation struct {
	Date     string   `json:"date"`
	Quantity float64  `json:"quantity"`
	Revenue  *float64 `json:"revenue,omitempty"`
	Cost     *float64 `json:"cost,omitempty"`
}
