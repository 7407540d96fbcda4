package stats

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"tutorbook/internal/core"
	tlog "tutorbook/internal/log"
)

const (
	UpcomingLimit = 5
	UnpaidLimit   = 10
)

// Service assembles reports for one owner at a time. It only reads from the
// store and holds no per-request state, so a single instance is shared by all
// callers.
type Service struct {
	store  RecordReader
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

type Option func(*Service)

// WithClock overrides the source of "now", used to decide which sessions are
// today's and which are upcoming.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that defines the current calendar day.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(store RecordReader, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the service's time zone.
func (s *Service) Today() core.Date {
	return core.DateOf(s.now().In(s.loc))
}

// Dashboard returns the landing-page snapshot. Counts and the unpaid amount
// are all-time.
func (s *Service) Dashboard(ctx context.Context, ownerID int64) (core.Dashboard, error) {
	if ownerID <= 0 {
		return core.Dashboard{}, core.ErrMissingOwner
	}
	clients, sessions, err := s.fetch(ctx, ownerID, nil)
	if err != nil {
		return core.Dashboard{}, err
	}

	ix := IndexClients(clients)
	agg := Aggregate(sessions, ix)
	s.warnSkipped(ctx, "dashboard", ownerID, agg.Skipped)

	views, _ := Join(sessions, ix)
	today := s.Today()

	return core.Dashboard{
		TotalClients:     len(clients),
		TotalSessions:    agg.Sessions,
		PaidSessions:     agg.PaidSessions,
		UnpaidAmount:     agg.Totals.Unpaid,
		TodaySessions:    sessionsOn(views, today),
		UpcomingSessions: upcoming(views, today, UpcomingLimit),
		UnpaidSessions:   recentUnpaid(views, UnpaidLimit),
	}, nil
}

// FinancialSummary returns the monthly series over the trailing monthsBack
// window (0 selects the default) together with all-time totals and the
// all-time client breakdown.
func (s *Service) FinancialSummary(ctx context.Context, ownerID int64, monthsBack int) (core.FinancialSummary, error) {
	if ownerID <= 0 {
		return core.FinancialSummary{}, core.ErrMissingOwner
	}
	rng, err := core.TrailingMonths(s.Today(), monthsBack)
	if err != nil {
		return core.FinancialSummary{}, err
	}
	clients, sessions, err := s.fetch(ctx, ownerID, nil)
	if err != nil {
		return core.FinancialSummary{}, err
	}

	ix := IndexClients(clients)
	all := Aggregate(sessions, ix)
	window := Aggregate(FilterRange(sessions, rng), ix)
	s.warnSkipped(ctx, "financial", ownerID, all.Skipped)

	return core.FinancialSummary{
		Period:          rng,
		MonthlyRevenue:  window.Monthly,
		TotalPaid:       all.Totals.Paid,
		TotalUnpaid:     all.Totals.Unpaid,
		ClientBreakdown: all.Clients,
	}, nil
}

// ActivityBreakdown counts the owner's clients per status.
func (s *Service) ActivityBreakdown(ctx context.Context, ownerID int64) ([]core.StatusCount, error) {
	if ownerID <= 0 {
		return nil, core.ErrMissingOwner
	}
	clients, err := s.store.FetchClients(ctx, ownerID)
	if err != nil {
		return nil, &ReadError{Op: "clients", Err: err}
	}
	return CountByStatus(clients), nil
}

// MonthlySummary reports on one calendar month, first through last day.
func (s *Service) MonthlySummary(ctx context.Context, ownerID int64, year, month int) (core.MonthlySummary, error) {
	if ownerID <= 0 {
		return core.MonthlySummary{}, core.ErrMissingOwner
	}
	rng, err := core.MonthRange(year, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}
	p, err := s.period(ctx, ownerID, rng, "monthly")
	if err != nil {
		return core.MonthlySummary{}, err
	}
	return core.MonthlySummary{
		Year:          year,
		Month:         month,
		TotalSessions: p.TotalSessions,
		ActiveClients: p.ActiveClients,
		TotalPaid:     p.TotalPaid,
		TotalUnpaid:   p.TotalUnpaid,
		ClientDetails: p.ClientDetails,
	}, nil
}

// PeriodSummary reports on an explicit inclusive date range.
func (s *Service) PeriodSummary(ctx context.Context, ownerID int64, from, to core.Date) (core.PeriodSummary, error) {
	if ownerID <= 0 {
		return core.PeriodSummary{}, core.ErrMissingOwner
	}
	rng, err := core.NewDateRange(from, to)
	if err != nil {
		return core.PeriodSummary{}, err
	}
	return s.period(ctx, ownerID, rng, "period")
}

// ClientStats returns all-time totals for one client.
func (s *Service) ClientStats(ctx context.Context, ownerID, clientID int64) (core.ClientStats, error) {
	if ownerID <= 0 {
		return core.ClientStats{}, core.ErrMissingOwner
	}
	if clientID <= 0 {
		return core.ClientStats{}, core.ErrMissingClient
	}
	clients, sessions, err := s.fetch(ctx, ownerID, nil)
	if err != nil {
		return core.ClientStats{}, err
	}
	ix := IndexClients(clients)
	if _, ok := ix[clientID]; !ok {
		return core.ClientStats{}, ErrClientNotFound
	}
	agg := Aggregate(FilterClient(sessions, clientID), ix)
	return core.ClientStats{
		ClientID:      clientID,
		TotalSessions: agg.Sessions,
		TotalPaid:     agg.Totals.Paid,
		TotalUnpaid:   agg.Totals.Unpaid,
	}, nil
}

func (s *Service) period(ctx context.Context, ownerID int64, rng core.DateRange, report string) (core.PeriodSummary, error) {
	clients, sessions, err := s.fetch(ctx, ownerID, &rng)
	if err != nil {
		return core.PeriodSummary{}, err
	}
	// Stores are asked for the range but the bounds are enforced here too.
	agg := Aggregate(FilterRange(sessions, rng), IndexClients(clients))
	s.warnSkipped(ctx, report, ownerID, agg.Skipped)

	return core.PeriodSummary{
		From:          rng.Start,
		To:            rng.End,
		TotalSessions: agg.Sessions,
		ActiveClients: agg.ActiveClients,
		TotalPaid:     agg.Totals.Paid,
		TotalUnpaid:   agg.Totals.Unpaid,
		ClientDetails: agg.Clients,
	}, nil
}

func (s *Service) fetch(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Client, []core.Session, error) {
	clients, sessions, err := s.read(ctx, ownerID, rng)
	if err != nil {
		return nil, nil, err
	}
	s.logger.DebugContext(ctx, "Records read",
		tlog.FieldOperation, tlog.OpRead,
		tlog.FieldOwnerID, ownerID,
		"clients", len(clients),
		"sessions", len(sessions))
	return clients, sessions, nil
}

// read loads clients and sessions. Stores that can serve both from one
// snapshot do so; otherwise the two reads run concurrently and may observe
// writes that land in between.
func (s *Service) read(ctx context.Context, ownerID int64, rng *core.DateRange) ([]core.Client, []core.Session, error) {
	if snap, ok := s.store.(SnapshotReader); ok {
		clients, sessions, err := snap.FetchSnapshot(ctx, ownerID, rng)
		if err != nil {
			return nil, nil, &ReadError{Op: "snapshot", Err: err}
		}
		return clients, sessions, nil
	}

	var (
		clients  []core.Client
		sessions []core.Session
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if clients, err = s.store.FetchClients(gctx, ownerID); err != nil {
			return &ReadError{Op: "clients", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sessions, err = s.store.FetchSessions(gctx, ownerID, rng); err != nil {
			return &ReadError{Op: "sessions", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return clients, sessions, nil
}

func (s *Service) warnSkipped(ctx context.Context, report string, ownerID int64, skipped int) {
	if skipped == 0 {
		return
	}
	s.logger.WarnContext(ctx, "Sessions reference unknown clients, excluded from totals",
		tlog.FieldComponent, tlog.ComponentStats,
		tlog.FieldReport, report,
		tlog.FieldOwnerID, ownerID,
		tlog.FieldSkippedSessions, skipped)
}

func sessionsOn(views []core.SessionView, day core.Date) []core.SessionView {
	out := make([]core.SessionView, 0)
	for _, v := range views {
		if v.Date.Equal(day) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b core.SessionView) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func upcoming(views []core.SessionView, today core.Date, limit int) []core.SessionView {
	out := make([]core.SessionView, 0)
	for _, v := range views {
		if v.Date.After(today) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, chronological)
	return truncate(out, limit)
}

func recentUnpaid(views []core.SessionView, limit int) []core.SessionView {
	out := make([]core.SessionView, 0)
	for _, v := range views {
		if v.Status == core.Unpaid {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b core.SessionView) int {
		return chronological(b, a)
	})
	return truncate(out, limit)
}

// chronological orders by date, then time of day, then ID.
func chronological(a, b core.SessionView) int {
	if c := a.Date.Compare(b.Date.Time); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func truncate(views []core.SessionView, limit int) []core.SessionView {
	if len(views) > limit {
		return views[:limit]
	}
	return views
}
