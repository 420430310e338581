package models

// TrendDirection labels whether the recent sales window is rising or falling.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
)

// TimeframeContext explains what one chart period represents for the selected
// timeframe.
type TimeframeContext struct {
	Period      string `json:"period"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Analysis    string `json:"analysis"`
}

// KeyMetrics summarizes the most recent sales window.
type KeyMetrics struct {
	AverageSales int            `json:"average_sales"`
	SalesTrend   TrendDirection `json:"sales_trend"`
	Volatility   int            `json:"volatility"`
	ProfitMargin int            `json:"profit_margin"`
}

// AnalysisResult is the narrative analysis derived from a sales series and
// timeframe. It is recomputed whenever the item or timeframe changes and is
// never persisted.
type AnalysisResult struct {
	DemandLevel         Level            `json:"demand_level"`
	DemandExplanation   string           `json:"demand_explanation"`
	AccuracyExplanation string           `json:"accuracy_explanation"`
	ProfitExplanation   string           `json:"profit_explanation"`
	Recommendations     []string         `json:"recommendations"`
	TimeframeContext    TimeframeContext `json:"timeframe_context"`
	KeyMetrics          KeyMetrics       `json:"key_metrics"`
}

// IndicatorPoint is one indicator value keyed to its source timestamp so
// charts can re-key by date without recomputing.
type IndicatorPoint struct {
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// IndicatorSet holds every indicator series computed for a sales series.
// Series requiring a warm-up window are shorter than the input.
type IndicatorSet struct {
	SMA20  []IndicatorPoint `json:"sma20"`
	EMA12  []IndicatorPoint `json:"ema12"`
	EMA26  []IndicatorPoint `json:"ema26"`
	RSI14  []IndicatorPoint `json:"rsi14"`
	MACD   []IndicatorPoint `json:"macd"`
	Volume []IndicatorPoint `json:"volume"`
}

// ChartAxis names the value axis a chart series is plotted against.
type ChartAxis string

const (
	AxisUnits    ChartAxis = "y"  // primary axis: unit counts
	AxisCurrency ChartAxis = "y1" // secondary axis: currency
)

// ChartDataset is one named numeric series on the blended chart. Nil entries
// mark regions the series does not cover (historical vs. forecast).
type ChartDataset struct {
	Label string     `json:"label"`
	Data  []*float64 `json:"data"`
	Axis  ChartAxis  `json:"axis"`
}

// ChartSeries is the blended, chart-ready view of historical records plus an
// optional forecast overlay. Labels and every dataset share one length.
type ChartSeries struct {
	Labels   []string       `json:"labels"` // ISO dates
	Datasets []ChartDataset `json:"datasets"`
}
