package forecastapi

import "github.com/pharmaforge/rxcast-go/internal/models"

// forecastPayload is the nested forecast object of the structured shape.
type forecastPayload struct {
	Values          []float64 `json:"values"`
	Forecasts       []float64 `json:"forecasts"`
	Dates           []string  `json:"dates"`
	ConfidenceLower []float64 `json:"confidence_lower"`
	ConfidenceUpper []float64 `json:"confidence_upper"`
}

// forecastResponse is the raw wire payload before shape detection. The
// backend speaks two dialects; both decode from this superset.
type forecastResponse struct {
	// Structured shape: payload nested under "forecast".
	Forecast *forecastPayload `json:"forecast"`

	// Legacy flat shape.
	Forecasts  []float64   `json:"forecasts"`
	Dates      []string    `json:"dates"`
	Confidence [][]float64 `json:"confidence"`

	Accuracy *float64 `json:"accuracy"`
}

// StructuredForecast is the current backend response variant.
type StructuredForecast struct {
	Values          []float64
	Dates           []string
	ConfidenceLower []float64
	ConfidenceUpper []float64
	Accuracy        *float64
}

// LegacyForecast is the flat response variant older deployments return.
type LegacyForecast struct {
	Forecasts  []float64
	Dates      []string
	Confidence [][]float64
	Accuracy   *float64
}

// BackendForecast is the tagged union of the two backend response shapes.
// Exactly one variant is non-nil for a recognizable payload.
type BackendForecast struct {
	Structured *StructuredForecast
	Legacy     *LegacyForecast
}

// classify detects which dialect a raw payload speaks. Unrecognizable
// payloads yield an empty union, which normalizes to "no forecast".
func classify(resp *forecastResponse) BackendForecast {
	if resp == nil {
		return BackendForecast{}
	}
	if resp.Forecast != nil {
		values := resp.Forecast.Values
		if len(values) == 0 {
			values = resp.Forecast.Forecasts
		}
		return BackendForecast{Structured: &StructuredForecast{
			Values:          values,
			Dates:           resp.Forecast.Dates,
			ConfidenceLower: resp.Forecast.ConfidenceLower,
			ConfidenceUpper: resp.Forecast.ConfidenceUpper,
			Accuracy:        resp.Accuracy,
		}}
	}
	if len(resp.Forecasts) > 0 || len(resp.Dates) > 0 {
		return BackendForecast{Legacy: &LegacyForecast{
			Forecasts:  resp.Forecasts,
			Dates:      resp.Dates,
			Confidence: resp.Confidence,
			Accuracy:   resp.Accuracy,
		}}
	}
	return BackendForecast{}
}

// Normalize converts either union variant into the canonical ForecastResult.
// An empty union yields nil, never an error: a malformed shape is treated as
// "no forecast".
func (b BackendForecast) Normalize() *models.ForecastResult {
	switch {
	case b.Structured != nil:
		result := &models.ForecastResult{
			Values:   b.Structured.Values,
			Dates:    b.Structured.Dates,
			Accuracy: b.Structured.Accuracy,
		}
		if len(b.Structured.ConfidenceLower) > 0 && len(b.Structured.ConfidenceUpper) > 0 {
			result.ConfidenceLower = b.Structured.ConfidenceLower
			result.ConfidenceUpper = b.Structured.ConfidenceUpper
		}
		return result
	case b.Legacy != nil:
		result := &models.ForecastResult{
			Values:   b.Legacy.Forecasts,
			Dates:    b.Legacy.Dates,
			Accuracy: b.Legacy.Accuracy,
		}
		if len(b.Legacy.Confidence) >= 2 {
			result.ConfidenceLower = b.Legacy.Confidence[0]
			result.ConfidenceUpper = b.Legacy.Confidence[1]
		}
		return result
	default:
		return nil
	}
}

// historicalResponse wraps the backend's historical series payload.
type historicalResponse struct {
	Success bool                           `json:"success"`
	Data    []models.HistoricalObservation `json:"data"`
}

// trainResponse is the backend's training acknowledgement.
type trainResponse struct {
	Message  string   `json:"message"`
	Accuracy *float64 `json:"accuracy"`
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// TrainRequest asks the backend to (re)train a model for a target.
type TrainRequest struct {
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
	ModelType  string `json:"model_type"`
}
