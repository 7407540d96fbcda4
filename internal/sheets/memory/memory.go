// Package memory provides an in-process report exporter for development and
// tests.
package memory

import (
	"context"
	"sync"

	"tutorbook/internal/core"
	ports "tutorbook/internal/sheets"
)

type exportKey struct {
	owner int64
	month core.MonthKey
}

// Exporter keeps the last export of every (owner, month).
type Exporter struct {
	mu      sync.Mutex
	reports map[exportKey]core.MonthlySummary
	writes  int
}

var _ ports.ReportExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{reports: map[exportKey]core.MonthlySummary{}}
}

// ExportMonthlySummary stores the summary and returns a synthetic reference.
func (e *Exporter) ExportMonthlySummary(_ context.Context, ownerID int64, s core.MonthlySummary) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reports[exportKey{owner: ownerID, month: core.MonthKey{Year: s.Year, Month: s.Month}}] = s
	e.writes++
	return "mem:" + ports.ReportSheetName(ownerID, s.Year, s.Month), nil
}

// Report returns the last exported summary for the owner and month.
func (e *Exporter) Report(ownerID int64, year, month int) (core.MonthlySummary, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.reports[exportKey{owner: ownerID, month: core.MonthKey{Year: year, Month: month}}]
	return s, ok
}

// Writes counts every export call, including overwrites.
func (e *Exporter) Writes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writes
}
