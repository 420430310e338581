package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pharmaforge/rxcast-go/internal/api"
	"github.com/pharmaforge/rxcast-go/internal/cache"
	"github.com/pharmaforge/rxcast-go/internal/catalog"
	"github.com/pharmaforge/rxcast-go/internal/config"
	"github.com/pharmaforge/rxcast-go/internal/database"
	"github.com/pharmaforge/rxcast-go/internal/forecastapi"
	"github.com/pharmaforge/rxcast-go/internal/logging"
	"github.com/pharmaforge/rxcast-go/internal/services"
	"github.com/pharmaforge/rxcast-go/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := telemetry.InitTelemetry(telemetry.TelemetryConfig{
		Enabled:     cfg.Environment != "test",
		Environment: cfg.Environment,
		SampleRate:  0.2,
	}); err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown telemetry: %v\n", err)
		}
	}()

	logger := logging.NewStandardLogger(cfg.LogLevel, cfg.Environment)
	serviceLogger := logging.NewServiceLogger(cfg.LogLevel)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redis.Close()

	// Wiring: catalog + backend client feed the orchestrator; the history
	// cache lives in Redis so instances share fetched observations.
	catalogRepo := catalog.NewRepository(db.Pool)
	backendClient := forecastapi.NewClient(&cfg.Backend)
	historyCache := cache.NewRedisHistoryCache(redis.Client, cfg.Forecasting.HistoryCacheTTLDuration())

	generator := services.NewPatternGenerator(serviceLogger, cfg.Forecasting.GeneratorSeed)
	baseline := services.NewBaselineForecaster(cfg.Forecasting.GeneratorSeed)
	forecastingService := services.NewForecastingService(backendClient, historyCache, generator, baseline, serviceLogger)
	aggregator := services.NewBulkAggregator(forecastingService, serviceLogger)

	// Periodic accuracy refresh keeps the analysis panel warm without
	// per-request backend calls dominating latency.
	scheduler := services.NewRefreshScheduler(cfg.Forecasting.RefreshIntervalDuration(), func(ctx context.Context) error {
		_, err := backendClient.GetAccuracy(ctx)
		return err
	}, serviceLogger)
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(api.RequestID())
	router.Use(otelgin.Middleware("rxcast-go"))

	api.SetupRoutes(router, db, redis, catalogRepo, forecastingService, backendClient,
		aggregator, cfg.Forecasting.DefaultHorizonDays, serviceLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       15 * time.Second,
	}

	go func() {
		logger.LogStartup("rxcast-go", "1.0.0", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serviceLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.LogShutdown("rxcast-go", "signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	serviceLogger.Info("Server exited gracefully")
	return nil
}
