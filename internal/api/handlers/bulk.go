package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pharmaforge/rxcast-go/internal/models"
	"github.com/pharmaforge/rxcast-go/internal/services"
)

// BulkHandler serves whole-catalog forecast aggregation.
type BulkHandler struct {
	catalog    CatalogStore
	aggregator *services.BulkAggregator
	logger     *logrus.Logger
}

func NewBulkHandler(catalog CatalogStore, aggregator *services.BulkAggregator, logger *logrus.Logger) *BulkHandler {
	return &BulkHandler{catalog: catalog, aggregator: aggregator, logger: logger}
}

type bulkRequest struct {
	Timeframe models.Timeframe `json:"timeframe"`
}

func (r *bulkRequest) timeframe() models.Timeframe {
	if r.Timeframe == "" {
		return models.Timeframe1M
	}
	return r.Timeframe
}

// BulkProducts aggregates every forecastable product at one timeframe.
func (h *BulkHandler) BulkProducts(c *gin.Context) {
	var req bulkRequest
	// Body is optional; an empty body means the default timeframe.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	items, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products for bulk run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	report := h.aggregator.AggregateProducts(c.Request.Context(), items, req.timeframe())
	c.JSON(http.StatusOK, report)
}

// BulkCategories aggregates every category at one timeframe.
func (h *BulkHandler) BulkCategories(c *gin.Context) {
	var req bulkRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories for bulk run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	items, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products for bulk run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	report := h.aggregator.AggregateCategories(c.Request.Context(), categories, items, req.timeframe())
	c.JSON(http.StatusOK, report)
}
