package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pharmaforge/rxcast-go/internal/models"
	"github.com/pharmaforge/rxcast-go/internal/services"
)

// CatalogStore reads the product and category catalog.
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]models.Item, error)
	GetProduct(ctx context.Context, id string) (*models.Item, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Item, error)
}

// Forecaster is the orchestration surface the HTTP handlers consume.
type Forecaster interface {
	SalesSeries(ctx context.Context, fc services.ForecastingContext) ([]models.SalesRecord, error)
	Forecast(ctx context.Context, fc services.ForecastingContext, horizonDays int) *models.ForecastResult
	Accuracy(ctx context.Context, fc services.ForecastingContext) *float64
	InvalidateTimeframe(fc services.ForecastingContext)
}

// ModelTrainer requests backend model training.
type ModelTrainer interface {
	TrainModel(ctx context.Context, itemID, itemName, itemType string) (*models.TrainingResult, error)
}

// ForecastingHandler serves the forecasting API: catalog, series, charts,
// narrative analysis, and raw predictions.
type ForecastingHandler struct {
	catalog     CatalogStore
	forecaster  Forecaster
	trainer     ModelTrainer
	indicators  *services.IndicatorEngine
	blender     *services.ForecastBlender
	analyzer    *services.Analyzer
	horizonDays int
	logger      *logrus.Logger
}

func NewForecastingHandler(
	catalog CatalogStore,
	forecaster Forecaster,
	trainer ModelTrainer,
	horizonDays int,
	logger *logrus.Logger,
) *ForecastingHandler {
	return &ForecastingHandler{
		catalog:     catalog,
		forecaster:  forecaster,
		trainer:     trainer,
		indicators:  services.NewIndicatorEngine(),
		blender:     services.NewForecastBlender(),
		analyzer:    services.NewAnalyzer(),
		horizonDays: horizonDays,
		logger:      logger,
	}
}

type seriesResponse struct {
	Item       models.Item          `json:"item"`
	Timeframe  models.Timeframe     `json:"timeframe"`
	Records    []models.SalesRecord `json:"records"`
	Indicators models.IndicatorSet  `json:"indicators"`
}

type chartResponse struct {
	Item      models.Item        `json:"item"`
	Timeframe models.Timeframe   `json:"timeframe"`
	Chart     models.ChartSeries `json:"chart"`
}

type predictionsResponse struct {
	Item     models.Item            `json:"item"`
	Forecast *models.ForecastResult `json:"forecast"`
}

type trainRequest struct {
	TargetID   string `json:"target_id" binding:"required"`
	TargetName string `json:"target_name"`
	ModelType  string `json:"model_type"`
}

// GetProducts returns the forecastable catalog.
func (h *ForecastingHandler) GetProducts(c *gin.Context) {
	items, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}

// GetCategories returns every catalog category.
func (h *ForecastingHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetSeries returns the sales-record sequence and indicator panel for an item.
func (h *ForecastingHandler) GetSeries(c *gin.Context) {
	fc, ok := h.resolveContext(c)
	if !ok {
		return
	}

	records, err := h.forecaster.SalesSeries(c.Request.Context(), fc)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build sales series")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build sales series"})
		return
	}

	c.JSON(http.StatusOK, seriesResponse{
		Item:       fc.Item,
		Timeframe:  fc.Timeframe,
		Records:    records,
		Indicators: h.indicators.Compute(records),
	})
}

// GetChart returns the blended historical-plus-forecast chart series.
func (h *ForecastingHandler) GetChart(c *gin.Context) {
	fc, ok := h.resolveContext(c)
	if !ok {
		return
	}

	records, err := h.forecaster.SalesSeries(c.Request.Context(), fc)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build sales series")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build sales series"})
		return
	}

	forecast := h.forecaster.Forecast(c.Request.Context(), fc, h.horizonDays)

	c.JSON(http.StatusOK, chartResponse{
		Item:      fc.Item,
		Timeframe: fc.Timeframe,
		Chart:     h.blender.Blend(records, forecast, time.Now()),
	})
}

// GetAnalysis returns the narrative analysis for an item.
func (h *ForecastingHandler) GetAnalysis(c *gin.Context) {
	fc, ok := h.resolveContext(c)
	if !ok {
		return
	}

	records, err := h.forecaster.SalesSeries(c.Request.Context(), fc)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build sales series")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build sales series"})
		return
	}

	accuracy := h.forecaster.Accuracy(c.Request.Context(), fc)
	analysis := h.analyzer.Analyze(records, fc.Timeframe, fc.Item, accuracy)
	if analysis == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no data to analyze"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetPredictions returns the raw forecast for an item, baseline-backed when
// the backend is unavailable.
func (h *ForecastingHandler) GetPredictions(c *gin.Context) {
	fc, ok := h.resolveContext(c)
	if !ok {
		return
	}

	forecast := h.forecaster.Forecast(c.Request.Context(), fc, h.horizonDays)
	c.JSON(http.StatusOK, predictionsResponse{Item: fc.Item, Forecast: forecast})
}

// TrainModel proxies a retraining request to the backend.
func (h *ForecastingHandler) TrainModel(c *gin.Context) {
	var req trainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id is required"})
		return
	}

	result, err := h.trainer.TrainModel(c.Request.Context(), req.TargetID, req.TargetName, req.ModelType)
	if err != nil {
		h.logger.WithField("target", req.TargetID).WithError(err).Error("Training request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "training request failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// resolveContext loads the selected item and timeframe from the request.
// A missing or unknown item is a client error; an unknown timeframe token
// falls back to the default window.
func (h *ForecastingHandler) resolveContext(c *gin.Context) (services.ForecastingContext, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id is required"})
		return services.ForecastingContext{}, false
	}

	itemType := c.DefaultQuery("type", "product")
	tf := models.Timeframe(c.DefaultQuery("timeframe", string(models.Timeframe1M)))

	var (
		item *models.Item
		err  error
	)
	switch itemType {
	case "category":
		item, err = h.catalog.GetCategory(c.Request.Context(), id)
	case "product":
		item, err = h.catalog.GetProduct(c.Request.Context(), id)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be product or category"})
		return services.ForecastingContext{}, false
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return services.ForecastingContext{}, false
	}

	fc := services.ForecastingContext{Item: *item, ItemType: itemType, Timeframe: tf}

	// A timeframe switch in the UI sends refresh=true so stale cached history
	// never appears under the new window.
	if c.Query("refresh") == "true" {
		h.forecaster.InvalidateTimeframe(fc)
	}

	return fc, true
}
