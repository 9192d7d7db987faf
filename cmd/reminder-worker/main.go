package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subtrack/internal/cli"
	"subtrack/internal/log"
	"subtrack/internal/services"
	"subtrack/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentReminder)

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenStore(logger, cfg)
	defer store.Close()
	repo := storage.NewRepository(store)

	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient == nil {
		logger.Error("AMQP connection required for the reminder worker")
		os.Exit(1)
	}
	defer amqpClient.Close()

	processor := services.NewReminderProcessor(repo, amqpClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Reminder worker started", "interval", cfg.ReminderInterval.String())

	runOnce(ctx, logger, processor)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			runOnce(ctx, logger, processor)
		}
	}
}

func runOnce(ctx context.Context, logger *log.Logger, processor *services.ReminderProcessor) {
	published, err := processor.ProcessDueReminders(ctx)
	if err != nil {
		logger.Error("Reminder processing failed", log.FieldError, err)
		return
	}
	logger.Info("Reminder processing complete", "published", published)
}
