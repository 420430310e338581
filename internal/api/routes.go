package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pharmaforge/rxcast-go/internal/api/handlers"
	"github.com/pharmaforge/rxcast-go/internal/database"
	"github.com/pharmaforge/rxcast-go/internal/services"
)

// RequestID attaches a unique id to each request for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// SetupRoutes registers the health and forecasting API surface.
func SetupRoutes(
	router *gin.Engine,
	db *database.PostgresDB,
	redis *database.RedisClient,
	catalog handlers.CatalogStore,
	forecaster handlers.Forecaster,
	trainer handlers.ModelTrainer,
	aggregator *services.BulkAggregator,
	horizonDays int,
	logger *logrus.Logger,
) {
	healthHandler := handlers.NewHealthHandler(db, redis)
	forecastingHandler := handlers.NewForecastingHandler(catalog, forecaster, trainer, horizonDays, logger)
	bulkHandler := handlers.NewBulkHandler(catalog, aggregator, logger)

	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/health/live", healthHandler.LivenessCheck)

	v1 := router.Group("/api/v1")
	{
		forecasting := v1.Group("/forecasting")
		{
			forecasting.GET("/products", forecastingHandler.GetProducts)
			forecasting.GET("/categories", forecastingHandler.GetCategories)
			forecasting.GET("/series/:id", forecastingHandler.GetSeries)
			forecasting.GET("/chart/:id", forecastingHandler.GetChart)
			forecasting.GET("/analysis/:id", forecastingHandler.GetAnalysis)
			forecasting.GET("/predictions/:id", forecastingHandler.GetPredictions)
			forecasting.POST("/train", forecastingHandler.TrainModel)

			bulk := forecasting.Group("/bulk")
			{
				bulk.POST("/products", bulkHandler.BulkProducts)
				bulk.POST("/categories", bulkHandler.BulkCategories)
			}
		}
	}
}
