package models

// ForecastResult is the canonical forecast contract: predicted values with
// optional dates, accuracy, and confidence bounds. It is either normalized
// from a backend response or produced locally by the baseline builder.
type ForecastResult struct {
	Values          []float64 `json:"values"`
	Dates           []string  `json:"dates,omitempty"` // ISO YYYY-MM-DD, same length as Values when present
	Accuracy        *float64  `json:"accuracy,omitempty"`
	ConfidenceLower []float64 `json:"confidence_lower,omitempty"`
	ConfidenceUpper []float64 `json:"confidence_upper,omitempty"`
}

// HasValues reports whether the forecast carries anything chartable.
func (f *ForecastResult) HasValues() bool {
	return f != nil && len(f.Values) > 0
}

// HasMatchingDates reports whether backend dates can be used as the forecast
// label axis verbatim.
func (f *ForecastResult) HasMatchingDates() bool {
	return f.HasValues() && len(f.Dates) == len(f.Values)
}

// ModelAccuracy describes one trained model's accuracy as reported by the
// forecasting backend.
type ModelAccuracy struct {
	TargetID           string  `json:"target_id"`
	ModelType          string  `json:"model_type"`
	AccuracyPercentage float64 `json:"accuracy_percentage"`
}

// AccuracyReport is the backend's accuracy summary: an overall percentage and
// per-model breakdown.
type AccuracyReport struct {
	AccuracyPercentage float64         `json:"accuracy_percentage"`
	Models             []ModelAccuracy `json:"models"`
}

// TrainingResult is the backend's response to a model-training request.
type TrainingResult struct {
	Message  string   `json:"message"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}
