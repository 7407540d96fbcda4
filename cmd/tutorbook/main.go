package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"tutorbook/internal/amqp"
	"tutorbook/internal/cli"
	apphttp "tutorbook/internal/http"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/services"
	"tutorbook/internal/stats"
)

func main() {
	logger := cli.SetupLogger(tlog.ComponentApp)
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting tutorbook server",
		tlog.FieldOperation, tlog.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"timezone", cfg.Timezone)

	store, err := cli.OpenStore(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open record store", tlog.FieldError, err)
		os.Exit(1)
	}

	// Export requests are optional; without a broker the route answers 503.
	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.ExportEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to message broker", tlog.FieldError, err)
			os.Exit(1)
		}
		amqpClient.WithLogger(logger.WithComponent(tlog.ComponentAMQP).Slog())
		publisher = amqpClient
		logger.Info("Report export enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Report export disabled - no AMQP_URL provided")
	}

	reports := stats.NewService(store.Store,
		stats.WithLocation(cfg.Location()),
		stats.WithLogger(logger.WithComponent(tlog.ComponentStats).Slog()))
	exports := services.NewExportService(publisher, logger.WithComponent(tlog.ComponentExport).Slog())

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger.WithComponent(tlog.ComponentHTTP),
	}, reports, exports, store.Store)

	ctx, done := cli.GracefulShutdown(context.Background(), logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", tlog.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", tlog.FieldError, err)
			}
		}
		if err := store.Cleanup(); err != nil {
			logger.Warn("Failed to close record store", tlog.FieldError, err)
		}
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", tlog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
