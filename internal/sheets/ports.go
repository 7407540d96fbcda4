// Package sheets defines the outbound ports for publishing finished reports to
// a spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"tutorbook/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportExporter writes a monthly summary somewhere a human will read it.
	// Exporting the same period twice replaces the earlier copy.
	ReportExporter interface {
		ExportMonthlySummary(ctx context.Context, ownerID int64, s core.MonthlySummary) (ref string, err error)
	}
)

// ReportSheetName is the tab name used for an owner's month report, e.g.
// "7 2024-03 Report". Owners share one spreadsheet, so the owner is part of
// the name.
func ReportSheetName(ownerID int64, year, month int) string {
	return fmt.Sprintf("%d %s Report", ownerID, core.MonthKey{Year: year, Month: month})
}
