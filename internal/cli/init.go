// Package cli holds the start-up steps shared by cmd/tutorbook,
// cmd/report-worker and the tutorctl commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorbook/internal/backend"
	"tutorbook/internal/config"
	tlog "tutorbook/internal/log"
)

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func SetupLogger(component string) *tlog.Logger {
	cfg := tlog.DefaultConfig()
	cfg.Level = tlog.ParseLevel(os.Getenv("LOG_LEVEL"))
	cfg.JSON = os.Getenv("LOG_FORMAT") == "json"
	if component != "" {
		cfg.Component = component
	}
	logger := tlog.New(cfg)
	slog.SetDefault(logger.Slog())
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine; a
// malformed one is reported and ignored.
func LoadEnvFile(logger *tlog.Logger) {
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("Ignoring .env file", tlog.FieldError, err)
	}
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *tlog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			tlog.FieldOperation, tlog.OpValidate,
			tlog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore creates the record store selected by DATA_BACKEND.
func OpenStore(ctx context.Context, logger *tlog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(tlog.ComponentBackend).Slog()).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", bcfg.Type, err)
	}
	return res, nil
}

// GracefulShutdown returns a context cancelled on SIGINT, SIGTERM or when
// parent ends. cleanup runs with a deadline of timeout before the context is
// cancelled; done is closed once it has returned.
func GracefulShutdown(parent context.Context, logger *tlog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received",
				tlog.FieldOperation, tlog.OpShutdown,
				"signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("Shutdown timeout reached", tlog.FieldOperation, tlog.OpShutdown)
			return
		}
		logger.Info("Shutdown complete", tlog.FieldOperation, tlog.OpShutdown)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
