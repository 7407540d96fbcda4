package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tutorbook/internal/amqp"
	"tutorbook/internal/core"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/sheets"
)

// Reporter computes the monthly summary. *stats.Service implements it.
type Reporter interface {
	MonthlySummary(ctx context.Context, ownerID int64, year, month int) (core.MonthlySummary, error)
}

// ExportWorker turns queued export requests into spreadsheet tabs. The report
// is recomputed when the message is handled, never taken from the request.
type ExportWorker struct {
	reports  Reporter
	exporter sheets.ReportExporter
	logger   *slog.Logger
}

func NewExportWorker(reports Reporter, exporter sheets.ReportExporter, logger *slog.Logger) *ExportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportWorker{
		reports:  reports,
		exporter: exporter,
		logger:   logger.With(tlog.FieldComponent, tlog.ComponentWorker),
	}
}

// HandleReportExport processes one request. A returned error makes the
// consumer requeue the message, so requests that can never succeed are
// logged and acknowledged instead.
func (w *ExportWorker) HandleReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error {
	period := core.MonthKey{Year: msg.Year, Month: msg.Month}.String()
	w.logger.InfoContext(ctx, "Processing report export",
		tlog.FieldOwnerID, msg.OwnerID,
		tlog.FieldPeriod, period)

	summary, err := w.reports.MonthlySummary(ctx, msg.OwnerID, msg.Year, msg.Month)
	if err != nil {
		if isPermanent(err) {
			w.logger.WarnContext(ctx, "Discarding invalid report export request",
				tlog.FieldOwnerID, msg.OwnerID,
				tlog.FieldPeriod, period,
				tlog.FieldError, err)
			return nil
		}
		return fmt.Errorf("compute monthly summary: %w", err)
	}

	ref, err := w.exporter.ExportMonthlySummary(ctx, msg.OwnerID, summary)
	if err != nil {
		return fmt.Errorf("export monthly summary: %w", err)
	}

	w.logger.InfoContext(ctx, "Exported monthly report",
		tlog.FieldOwnerID, msg.OwnerID,
		tlog.FieldPeriod, period,
		tlog.FieldSheetsRef, ref,
		"sessions", summary.TotalSessions)
	return nil
}

func isPermanent(err error) bool {
	return errors.Is(err, core.ErrMissingOwner) ||
		errors.Is(err, core.ErrMissingPeriod) ||
		errors.Is(err, core.ErrInvalidMonth) ||
		errors.Is(err, core.ErrInvalidRange)
}
