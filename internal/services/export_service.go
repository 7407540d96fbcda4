package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tutorbook/internal/core"
	tlog "tutorbook/internal/log"
)

var (
	// ErrExportDisabled is returned when no message broker is configured.
	ErrExportDisabled = errors.New("report export is not configured")
	// ErrExportUnavailable wraps a failure to reach the broker.
	ErrExportUnavailable = errors.New("report export is unavailable")
)

// Publisher enqueues report export requests. *amqp.Client implements it.
type Publisher interface {
	PublishReportExport(ctx context.Context, ownerID int64, year, month int) error
}

// ExportService accepts monthly report export requests and hands them to the
// queue. The report itself is computed later by the worker.
type ExportService struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewExportService builds the service. A nil publisher disables exports.
func NewExportService(publisher Publisher, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{publisher: publisher, logger: logger}
}

// Enabled reports whether requests can be accepted.
func (s *ExportService) Enabled() bool {
	return s.publisher != nil
}

// RequestMonthlyExport validates the period and publishes the request.
func (s *ExportService) RequestMonthlyExport(ctx context.Context, ownerID int64, year, month int) error {
	if ownerID <= 0 {
		return core.ErrMissingOwner
	}
	if _, err := core.MonthRange(year, month); err != nil {
		return err
	}
	if s.publisher == nil {
		return ErrExportDisabled
	}

	if err := s.publisher.PublishReportExport(ctx, ownerID, year, month); err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue report export",
			tlog.FieldComponent, tlog.ComponentExport,
			tlog.FieldOwnerID, ownerID,
			tlog.FieldYear, year,
			tlog.FieldMonth, month,
			tlog.FieldError, err)
		return fmt.Errorf("%w: %w", ErrExportUnavailable, err)
	}

	s.logger.InfoContext(ctx, "Report export requested",
		tlog.FieldComponent, tlog.ComponentExport,
		tlog.FieldOwnerID, ownerID,
		tlog.FieldPeriod, core.MonthKey{Year: year, Month: month}.String())
	return nil
}
