package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"subtrack/internal/cli"
	"subtrack/internal/log"
	"subtrack/internal/sheets"
	gsheet "subtrack/internal/sheets/google"
	"subtrack/internal/sheets/memory"
	"subtrack/internal/storage"
	"subtrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenStore(logger, cfg)
	defer store.Close()
	repo := storage.NewRepository(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var writer sheets.SubscriptionWriter
	if cfg.SheetsExportEnabled {
		client, err := gsheet.NewClient(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredsFile,
			CredentialsJSON: cfg.GoogleCredsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Exporting to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		writer = client
	} else {
		logger.Warn("Sheets export disabled, events are recorded in memory only")
		writer = memory.New()
	}

	exportWorker := worker.NewExportWorker(repo, writer)

	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient == nil {
		logger.Error("AMQP connection required for the export worker")
		os.Exit(1)
	}
	defer amqpClient.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeSubscriptionEvents(gctx, exportWorker.HandleEvent)
	})

	logger.Info("Export worker started", "queue", cfg.AMQPEventQueue)
	if err := g.Wait(); err != nil && gctx.Err() == nil {
		logger.Error("Export worker failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Export worker stopped")
}
