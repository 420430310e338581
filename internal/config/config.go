package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string            `mapstructure:"environment"`
	LogLevel    string            `mapstructure:"log_level"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Backend     BackendConfig     `mapstructure:"backend"`
	Forecasting ForecastingConfig `mapstructure:"forecasting"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BackendConfig points at the external forecasting backend (model training and
// forecast generation).
type BackendConfig struct {
	ServiceURL string `mapstructure:"service_url"`
	Timeout    int    `mapstructure:"timeout"` // seconds
}

// ForecastingConfig tunes the local synthesis and refresh behavior.
type ForecastingConfig struct {
	DefaultHorizonDays int    `mapstructure:"default_horizon_days"`
	DefaultTimeframe   string `mapstructure:"default_timeframe"`
	RefreshInterval    string `mapstructure:"refresh_interval"`
	HistoryCacheTTL    string `mapstructure:"history_cache_ttl"`
	GeneratorSeed      int64  `mapstructure:"generator_seed"` // 0 = time-seeded
}

// RefreshIntervalDuration returns the parsed refresh interval, floored at the
// 30-second minimum that bounds backend load.
func (f ForecastingConfig) RefreshIntervalDuration() time.Duration {
	d, err := time.ParseDuration(f.RefreshInterval)
	if err != nil || d < 30*time.Second {
		return 30 * time.Second
	}
	return d
}

// HistoryCacheTTLDuration returns the parsed cache TTL, defaulting to an hour.
func (f ForecastingConfig) HistoryCacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(f.HistoryCacheTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Forecasting.DefaultHorizonDays <= 0 {
		return nil, fmt.Errorf("forecasting default_horizon_days must be positive, got %d",
			config.Forecasting.DefaultHorizonDays)
	}
	if config.Forecasting.RefreshInterval != "" {
		if _, err := time.ParseDuration(config.Forecasting.RefreshInterval); err != nil {
			return nil, fmt.Errorf("invalid refresh interval: %w", err)
		}
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "rxcast")
	viper.SetDefault("database.sslmode", "disable")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Forecasting backend
	viper.SetDefault("backend.service_url", "http://localhost:5000")
	viper.SetDefault("backend.timeout", 30)

	// Forecasting engine
	viper.SetDefault("forecasting.default_horizon_days", 30)
	viper.SetDefault("forecasting.default_timeframe", "1D")
	viper.SetDefault("forecasting.refresh_interval", "30s")
	viper.SetDefault("forecasting.history_cache_ttl", "1h")
	viper.SetDefault("forecasting.generator_seed", 0)
}
