package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// StandardLogger provides structured startup/shutdown and component logging on
// top of slog. Services use logrus directly; this wrapper standardizes the
// lifecycle events emitted by cmd/server.
type StandardLogger struct {
	logger *slog.Logger
}

// NewStandardLogger creates a JSON slog logger at the configured level.
func NewStandardLogger(logLevel string, environment string) *StandardLogger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: getSlogLevel(logLevel),
	}))
	return &StandardLogger{logger: logger.With("environment", environment)}
}

// WithComponent creates a logger with component context.
func (l *StandardLogger) WithComponent(componentName string) *slog.Logger {
	return l.logger.With("component", componentName)
}

// WithOperation creates a logger with operation context.
func (l *StandardLogger) WithOperation(operationName string) *slog.Logger {
	return l.logger.With("operation", operationName)
}

// LogStartup logs application startup information.
func (l *StandardLogger) LogStartup(serviceName string, version string, port int) {
	l.logger.Info("Application startup",
		"service", serviceName,
		"version", version,
		"port", port,
		"event", "startup",
	)
}

// LogShutdown logs application shutdown information.
func (l *StandardLogger) LogShutdown(serviceName string, reason string) {
	l.logger.Info("Application shutdown",
		"service", serviceName,
		"reason", reason,
		"event", "shutdown",
	)
}

// Logger returns the underlying *slog.Logger.
func (l *StandardLogger) Logger() *slog.Logger {
	return l.logger
}

// getSlogLevel converts a string level to slog.Level.
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogrusLevel converts a string level to logrus.Level.
func ParseLogrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// NewServiceLogger builds the logrus logger shared by the forecasting
// services.
func NewServiceLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(ParseLogrusLevel(level))
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}
