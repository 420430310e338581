package forecastapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pharmaforge/rxcast-go/internal/config"
	"github.com/pharmaforge/rxcast-go/internal/models"
)

// BackendClient is the surface the orchestrator needs from the forecasting
// backend. All failures are non-fatal to callers: the engine falls back to
// local generation.
type BackendClient interface {
	GetForecast(ctx context.Context, itemID, itemType string, horizonDays int, cadence string) (*models.ForecastResult, error)
	GetHistoricalSeries(ctx context.Context, itemType, itemID string, timeframe models.Timeframe) ([]models.HistoricalObservation, error)
	TrainModel(ctx context.Context, itemID, itemName, itemType string) (*models.TrainingResult, error)
	GetAccuracy(ctx context.Context) (*models.AccuracyReport, error)
}

// Client is the HTTP client for the forecasting backend service.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	timeout    time.Duration
}

// NewClient creates a new forecasting backend client instance.
func NewClient(cfg *config.BackendConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL: strings.TrimSuffix(cfg.ServiceURL, "/"),
		timeout: timeout,
	}
}

// GetForecast retrieves model predictions for a target, normalizing both the
// structured and legacy response shapes. A recognizable-but-empty payload
// returns (nil, nil): "no forecast" is not an error.
func (c *Client) GetForecast(ctx context.Context, itemID, itemType string, horizonDays int, cadence string) (*models.ForecastResult, error) {
	params := url.Values{}
	params.Set("target_id", itemID)
	params.Set("model_type", itemType)
	params.Set("forecast_days", strconv.Itoa(horizonDays))
	if cadence != "" {
		params.Set("forecast_type", cadence)
	}

	var response forecastResponse
	err := c.makeRequest(ctx, "GET", "/api/forecasting/predictions?"+params.Encode(), nil, &response)
	if err != nil {
		return nil, err
	}
	return classify(&response).Normalize(), nil
}

// GetHistoricalSeries retrieves the true per-interval sales history for a
// target and timeframe.
func (c *Client) GetHistoricalSeries(ctx context.Context, itemType, itemID string, timeframe models.Timeframe) ([]models.HistoricalObservation, error) {
	params := url.Values{}
	params.Set("model_type", itemType)
	params.Set("target_id", itemID)
	params.Set("timeframe", timeframe.String())

	var response historicalResponse
	err := c.makeRequest(ctx, "GET", "/api/forecasting/historical?"+params.Encode(), nil, &response)
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("historical series request unsuccessful for %s/%s", itemType, itemID)
	}
	return response.Data, nil
}

// TrainModel asks the backend to (re)train the model for a target.
func (c *Client) TrainModel(ctx context.Context, itemID, itemName, itemType string) (*models.TrainingResult, error) {
	req := TrainRequest{
		TargetID:   itemID,
		TargetName: itemName,
		ModelType:  itemType,
	}

	var response trainResponse
	err := c.makeRequest(ctx, "POST", "/api/forecasting/train", req, &response)
	if err != nil {
		return nil, err
	}
	return &models.TrainingResult{
		Message:  response.Message,
		Accuracy: response.Accuracy,
	}, nil
}

// GetAccuracy retrieves the overall and per-model accuracy report.
func (c *Client) GetAccuracy(ctx context.Context) (*models.AccuracyReport, error) {
	var response models.AccuracyReport
	err := c.makeRequest(ctx, "GET", "/api/forecasting/accuracy", nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// makeRequest is a helper method to make HTTP requests to the backend.
func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.BaseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "RxCast-Go/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResp errorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error != "" {
			return fmt.Errorf("forecasting backend error (%d): %s", resp.StatusCode, errorResp.Error)
		}
		return fmt.Errorf("forecasting backend error (%d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
