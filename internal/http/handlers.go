package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the record store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{}

	if s.store == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.store.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	if s.exports != nil && s.exports.Enabled() {
		checks["export"] = "ok"
	} else {
		checks["export"] = "disabled"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	counter := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n\n", name, help, name, name, v)
	}
	gauge := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %d\n\n", name, help, name, name, v)
	}

	counter("http_requests_total", "Total number of HTTP requests", traceMetrics.TotalRequests)
	gauge("http_requests_in_flight", "Requests currently being served", traceMetrics.InFlight)
	gauge("http_request_duration_avg_microseconds", "Average request duration", traceMetrics.AverageResponseTime)
	counter("reports_served_total", "Reports returned successfully", atomic.LoadInt64(&s.metrics.reportsServed))
	counter("report_errors_total", "Report requests that ended in an error", atomic.LoadInt64(&s.metrics.reportErrors))
	counter("rate_limit_hits_total", "Requests rejected by the rate limiter", limitMetrics.TotalHits)
	gauge("active_rate_limit_clients", "Currently tracked rate limit clients", limitMetrics.ClientCount)
	counter("suspicious_requests_total", "Requests blocked as suspicious", securityMetrics.SuspiciousRequests)
	gauge("uptime_seconds", "Process uptime in seconds", int64(time.Since(s.started).Seconds()))
}
