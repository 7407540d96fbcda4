package http

import (
	"net/http"
	"sync/atomic"

	tlog "tutorbook/internal/log"
)

// report wraps a handler that needs the owner. Missing owners get 401 before
// the handler runs; the outcome is counted for /metrics.
func (s *Server) report(name string, fn func(w http.ResponseWriter, r *http.Request, ownerID int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		logger := tlog.FromContext(r.Context()).With(tlog.FieldReport, name, tlog.FieldOwnerID, ownerID)
		r = r.WithContext(tlog.NewContext(r.Context(), logger))

		if err := fn(w, r, ownerID); err != nil {
			atomic.AddInt64(&s.metrics.reportErrors, 1)
			writeError(w, r, err)
			return
		}
		atomic.AddInt64(&s.metrics.reportsServed, 1)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, ownerID int64) error {
	d, err := s.reports.Dashboard(r.Context(), ownerID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, d)
	return nil
}

func (s *Server) handleFinancial(w http.ResponseWriter, r *http.Request, ownerID int64) error {
	months, err := ParseMonthsBack(r.URL.Query())
	if err != nil {
		return err
	}
	f, err := s.reports.FinancialSummary(r.Context(), ownerID, months)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, f)
	return nil
}

func (s *Server) handleClientsActivity(w http.ResponseWriter, r *http.Request, ownerID int64) error {
	counts, err := s.reports.ActivityBreakdown(r.Context(), ownerID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, counts)
	return nil
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request, ownerID int64) error {
	p, err := ParseMonthParams(r.URL.Query())
	if err != nil {
		return err
	}
	m, err := s.reports.MonthlySummary(r.Context(), ownerID, p.Year, p.Month)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, m)
	return nil
}

func (s *Server) handlePeriodSummary(w http.ResponseWriter, r *http.Request, ownerID int64) error {
	from, to, err := ParseDateRangeParams(r.URL.Query())
	if err != nil {
		return err
	}
	p, err := s.reports.PeriodSummary(r.Context(), ownerID, from, to)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

func (s *Server) handleClientStats(w http.ResponseWriter, r *http.Request, ownerID int64) error {
	clientID, err := pathID(r, "id")
	if err != nil {
		return err
	}
	c, err := s.reports.ClientStats(r.Context(), ownerID, clientID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, c)
	return nil
}

type exportAccepted struct {
	Status string `json:"status"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}

func (s *Server) handleExportMonthly(w http.ResponseWriter, r *http.Request, ownerID int64) error {
	p, err := ParseMonthParams(r.URL.Query())
	if err != nil {
		return err
	}
	if err := s.exports.RequestMonthlyExport(r.Context(), ownerID, p.Year, p.Month); err != nil {
		return err
	}
	writeJSON(w, http.StatusAccepted, exportAccepted{Status: "queued", Year: p.Year, Month: p.Month})
	return nil
}
