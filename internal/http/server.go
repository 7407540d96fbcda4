package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tutorbook/internal/core"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/middleware/ratelimit"
	"tutorbook/internal/middleware/security"
	"tutorbook/internal/middleware/trace"
	"tutorbook/internal/services"
)

// Reports is the report engine behind the API. *stats.Service implements it.
type Reports interface {
	Dashboard(ctx context.Context, ownerID int64) (core.Dashboard, error)
	FinancialSummary(ctx context.Context, ownerID int64, monthsBack int) (core.FinancialSummary, error)
	ActivityBreakdown(ctx context.Context, ownerID int64) ([]core.StatusCount, error)
	MonthlySummary(ctx context.Context, ownerID int64, year, month int) (core.MonthlySummary, error)
	PeriodSummary(ctx context.Context, ownerID int64, from, to core.Date) (core.PeriodSummary, error)
	ClientStats(ctx context.Context, ownerID, clientID int64) (core.ClientStats, error)
}

// ExportRequester queues monthly report exports. *services.ExportService
// implements it.
type ExportRequester interface {
	RequestMonthlyExport(ctx context.Context, ownerID int64, year, month int) error
	Enabled() bool
}

// Pinger is used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config configures the server. Zero values select defaults.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	Logger             *tlog.Logger
}

type Server struct {
	http.Server

	reports Reports
	exports ExportRequester
	store   Pinger

	tracer   *trace.Middleware
	limiter  *ratelimit.Limiter
	detector *security.Detector
	started  time.Time

	metrics struct {
		reportsServed int64
		reportErrors  int64
	}
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. A nil exports disables the export
// route (it answers 503).
func NewServer(cfg Config, reports Reports, exports ExportRequester, store Pinger) *Server {
	if cfg.Logger == nil {
		cfg.Logger = tlog.New(tlog.DefaultConfig())
	}
	if exports == nil {
		exports = services.NewExportService(nil, cfg.Logger.Slog())
	}

	s := &Server{
		reports:  reports,
		exports:  exports,
		store:    store,
		tracer:   trace.NewMiddleware(),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector: security.NewDetector(),
		started:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/stats/dashboard", s.report("dashboard", s.handleDashboard))
	api.HandleFunc("GET /api/stats/financial", s.report("financial", s.handleFinancial))
	api.HandleFunc("GET /api/stats/clients-activity", s.report("clients_activity", s.handleClientsActivity))
	api.HandleFunc("GET /api/stats/monthly-summary", s.report("monthly", s.handleMonthlySummary))
	api.HandleFunc("POST /api/stats/monthly-summary/export", s.report("monthly_export", s.handleExportMonthly))
	api.HandleFunc("GET /api/stats/period", s.report("period", s.handlePeriodSummary))
	api.HandleFunc("GET /api/clients/{id}/stats", s.report("client", s.handleClientStats))

	// Probes are exempt from rate limiting.
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)(api)
	mux.Handle("/api/", limited)

	var h http.Handler = mux
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = tlog.AccessMiddleware(s.detector.ExtractClientIP)(h)
	h = tlog.RequestIDMiddleware(cfg.Logger, trace.RequestID)(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	logger := tlog.FromContext(r.Context()).WithComponent(tlog.ComponentRateLimit)
	logger.WarnContext(r.Context(), "Rate limit exceeded",
		tlog.FieldClientIP, s.detector.ExtractClientIP(r),
		tlog.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
}

// Shutdown stops background work and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
