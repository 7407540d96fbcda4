package main

import (
	"context"
	"errors"
	"os"

	"tutorbook/internal/amqp"
	"tutorbook/internal/cli"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/sheets"
	gsheet "tutorbook/internal/sheets/google"
	memsheet "tutorbook/internal/sheets/memory"
	"tutorbook/internal/stats"
	"tutorbook/internal/worker"
)

func main() {
	logger := cli.SetupLogger(tlog.ComponentWorker)
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting report-worker", tlog.FieldOperation, tlog.OpStartup)

	if !cfg.ExportEnabled() {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}

	store, err := cli.OpenStore(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open record store", tlog.FieldError, err)
		os.Exit(1)
	}

	var exporter sheets.ReportExporter
	if cfg.SheetsEnabled() {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", tlog.FieldError, err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exporter = memsheet.New()
		logger.Warn("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exports are kept in memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", tlog.FieldError, err)
		os.Exit(1)
	}
	amqpClient.WithLogger(logger.WithComponent(tlog.ComponentAMQP).Slog())

	reports := stats.NewService(store.Store,
		stats.WithLocation(cfg.Location()),
		stats.WithLogger(logger.WithComponent(tlog.ComponentStats).Slog()))
	exportWorker := worker.NewExportWorker(reports, exporter, logger.Slog())

	// A consumer that gives up also stops the process.
	parent, stop := context.WithCancel(context.Background())
	defer stop()

	ctx, done := cli.GracefulShutdown(parent, logger, cfg.ShutdownTimeout, func(context.Context) {
		stop()
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", tlog.FieldError, err)
		}
		if err := store.Cleanup(); err != nil {
			logger.Warn("Failed to close record store", tlog.FieldError, err)
		}
	})

	go func() {
		err := amqpClient.ConsumeReportExports(ctx, exportWorker.HandleReportExport)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", tlog.FieldError, err)
		}
		stop()
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
