// Package cli provides common initialization helpers shared by
// cmd/subtrack, cmd/subtrack-worker, and cmd/reminder-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"subtrack/internal/amqp"
	"subtrack/internal/config"
	"subtrack/internal/keyval"
	"subtrack/internal/log"
)

// SetupLogger initializes structured logging for the given component
// and installs it as the process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.LevelFromEnv()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the key-value store selected by cfg.DataBackend.
// Exits the process when the sqlite store cannot be opened.
func OpenStore(logger *log.Logger, cfg *config.Config) keyval.Store {
	switch cfg.DataBackend {
	case "sqlite":
		store, err := keyval.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Using SQLite store", "path", cfg.SQLiteDBPath)
		return store
	default:
		logger.Info("Using in-memory store")
		return keyval.NewMemoryStore()
	}
}

// ConnectAMQP connects to the message broker. A failed connection is
// not fatal: callers get nil and run without messaging.
func ConnectAMQP(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled, no URL configured")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPEventQueue, cfg.AMQPReminderQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, continuing without messaging", log.FieldError, err)
		return nil
	}
	logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange)
	return client
}
