package services

import (
	"math"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

const overlaySMAPeriod = 7

// ForecastBlender merges a historical sales-record sequence with an external
// forecast into one continuous labeled chart series. The historical and
// forecast regions are contiguous and mutually exclusive: each dataset is nil
// over the region it does not cover.
type ForecastBlender struct{}

func NewForecastBlender() *ForecastBlender {
	return &ForecastBlender{}
}

// Blend builds the chart series. A nil or valueless forecast yields the
// historical series unmodified.
func (b *ForecastBlender) Blend(records []models.SalesRecord, forecast *models.ForecastResult, now time.Time) models.ChartSeries {
	labels := make([]string, len(records))
	sales := make([]*float64, len(records))
	revenue := make([]*float64, len(records))
	profit := make([]*float64, len(records))
	for i, r := range records {
		labels[i] = r.Date.Format("2006-01-02")
		sales[i] = ptr(float64(r.Sales))
		revenue[i] = ptr(r.Revenue)
		profit[i] = ptr(r.Profit)
	}

	if forecast == nil || !forecast.HasValues() {
		return models.ChartSeries{
			Labels: labels,
			Datasets: []models.ChartDataset{
				{Label: "Sales", Data: sales, Axis: models.AxisUnits},
				{Label: "Revenue", Data: revenue, Axis: models.AxisCurrency},
				{Label: "Profit", Data: profit, Axis: models.AxisCurrency},
			},
		}
	}

	histLen := len(records)
	forecastLen := len(forecast.Values)

	forecastLabels := b.forecastLabels(records, forecast, now)
	labels = append(labels, forecastLabels...)

	// Historical-only datasets are nil over the forecast region.
	sales = padTail(sales, forecastLen)
	revenue = padTail(revenue, forecastLen)
	profit = padTail(profit, forecastLen)
	smoothed := padTail(b.smoothedSalesOverlay(records), forecastLen)

	// The forecast dataset mirrors that: nil over the historical region.
	forecastData := make([]*float64, histLen, histLen+forecastLen)
	for _, v := range forecast.Values {
		forecastData = append(forecastData, ptr(v))
	}

	return models.ChartSeries{
		Labels: labels,
		Datasets: []models.ChartDataset{
			{Label: "Sales", Data: sales, Axis: models.AxisUnits},
			{Label: "Sales (SMA 7)", Data: smoothed, Axis: models.AxisUnits},
			{Label: "Forecast", Data: forecastData, Axis: models.AxisUnits},
			{Label: "Revenue", Data: revenue, Axis: models.AxisCurrency},
			{Label: "Profit", Data: profit, Axis: models.AxisCurrency},
		},
	}
}

// forecastLabels uses the backend's dates when they align with the values,
// otherwise synthesizes consecutive calendar days after the last historical
// date. Backend dates are parsed in local time so date-only strings do not
// shift a day west of UTC.
func (b *ForecastBlender) forecastLabels(records []models.SalesRecord, forecast *models.ForecastResult, now time.Time) []string {
	if forecast.HasMatchingDates() {
		labels := make([]string, len(forecast.Dates))
		for i, d := range forecast.Dates {
			if t, err := parseLocalDate(d); err == nil {
				labels[i] = t.Format("2006-01-02")
			} else {
				labels[i] = d
			}
		}
		return labels
	}

	anchor := now
	if len(records) > 0 && !records[len(records)-1].Date.IsZero() {
		anchor = records[len(records)-1].Date
	}

	labels := make([]string, len(forecast.Values))
	for i := range forecast.Values {
		labels[i] = anchor.AddDate(0, 0, i+1).Format("2006-01-02")
	}
	return labels
}

// smoothedSalesOverlay is the trailing SMA(7) of the historical sales,
// rounded back to whole units, nil until a full window exists.
func (b *ForecastBlender) smoothedSalesOverlay(records []models.SalesRecord) []*float64 {
	out := make([]*float64, len(records))
	if len(records) < overlaySMAPeriod {
		return out
	}

	closes := make([]float64, len(records))
	for i, r := range records {
		closes[i] = float64(r.Sales)
	}

	smaIndicator := trend.NewSmaWithPeriod[float64](overlaySMAPeriod)
	values := helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(closes)))
	for i, v := range values {
		out[i+overlaySMAPeriod-1] = ptr(math.Round(v))
	}
	return out
}

func padTail(data []*float64, n int) []*float64 {
	return append(data, make([]*float64, n)...)
}

func ptr(v float64) *float64 {
	return &v
}
