// Package cli holds the initialization steps shared by the partypay
// binaries: env loading, logging, configuration, and shutdown signals.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"partypay/internal/config"
	"partypay/internal/log"
)

// LoadEnvFile loads a .env file for local development. Missing files are
// fine, containers get their environment from the orchestrator.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger, honoring LOG_LEVEL
// (debug|info|warn|error), and installs it as the slog default.
func SetupLogger(component string) *log.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := log.New(component, log.Config{Level: level})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads the configuration and exits the process when
// it does not validate.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
