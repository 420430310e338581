package services

import (
	"math"
	"sort"
	"time"

	"github.com/pharmaforge/rxcast-go/internal/models"
	"github.com/pharmaforge/rxcast-go/internal/utils"
)

// HistoricalNormalizer converts raw backend observations into the canonical
// sales-record sequence. When a non-empty observation set exists for an item
// the normalized series replaces the synthetic one entirely.
type HistoricalNormalizer struct{}

func NewHistoricalNormalizer() *HistoricalNormalizer {
	return &HistoricalNormalizer{}
}

// Normalize maps each observation to a SalesRecord, deriving revenue and cost
// from the item's unit economics when the backend omits them, and returns the
// result sorted ascending by timestamp. Upstream ordering is not guaranteed,
// so the sort is unconditional.
func (n *HistoricalNormalizer) Normalize(observations []models.HistoricalObservation, item models.Item) ([]models.SalesRecord, error) {
	records := make([]models.SalesRecord, 0, len(observations))

	for _, obs := range observations {
		date, err := parseLocalDate(obs.Date)
		if err != nil {
			return nil, utils.NewValidationErrorf("invalid observation date %q: %v", obs.Date, err)
		}

		sales := int(math.Round(obs.Quantity))

		revenue := obs.Quantity * item.UnitPrice
		if obs.Revenue != nil {
			revenue = *obs.Revenue
		}
		cost := obs.Quantity * item.CostPrice
		if obs.Cost != nil {
			cost = *obs.Cost
		}

		revenue = roundMoney(revenue)
		cost = roundMoney(cost)
		profit := roundMoney(revenue - cost)
		margin := roundMoney(profitMarginPercent(profit, revenue))

		records = append(records, models.SalesRecord{
			Date:         date,
			Timestamp:    date.UnixMilli(),
			Sales:        sales,
			Revenue:      revenue,
			Cost:         cost,
			Profit:       profit,
			ProfitMargin: margin,
			UnitPrice:    roundMoney(item.UnitPrice),
			UnitCost:     roundMoney(item.CostPrice),
			DemandLevel:  absoluteDemandLevel(sales),
			ProfitLevel:  profitLevel(margin),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})

	return records, nil
}

// absoluteDemandLevel classifies real observed quantities on a fixed unit
// scale, unlike the generator's relative classification.
func absoluteDemandLevel(sales int) models.Level {
	switch {
	case sales > 15:
		return models.LevelHigh
	case sales >= 8:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

// parseLocalDate parses an ISO date (or datetime) in local time. Parsing
// date-only strings as UTC would shift the calendar day for anyone west of
// Greenwich, so the date components are always interpreted locally.
func parseLocalDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, utils.NewValidationError("unsupported date format")
}
