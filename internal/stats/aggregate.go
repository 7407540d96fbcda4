package stats

import (
	"cmp"
	"slices"

	"tutorbook/internal/core"
)

// ClientIndex resolves a session's client by ID. It is the read-time join
// that prices sessions with the client's current rate.
type ClientIndex map[int64]core.Client

// IndexClients builds the lookup used by every aggregation.
func IndexClients(clients []core.Client) ClientIndex {
	ix := make(ClientIndex, len(clients))
	for _, c := range clients {
		ix[c.ID] = c
	}
	return ix
}

// Result holds everything computed in one pass over a session set.
type Result struct {
	Totals        core.Totals
	Sessions      int // every session in the input, resolvable or not
	PaidSessions  int
	ActiveClients int // distinct resolvable clients with at least one session
	// Skipped counts sessions whose client could not be resolved. They are
	// left out of every sum and breakdown.
	Skipped int
	Monthly []core.MonthlyRevenue
	Clients []core.ClientBreakdown
}

// Aggregate sums, counts and groups sessions. It has no side effects.
//
// Monthly buckets are ascending and only exist for months that have at least
// one priced session. Client rows are sorted by session count descending, ties
// broken by client ID.
func Aggregate(sessions []core.Session, ix ClientIndex) Result {
	res := Result{
		Sessions: len(sessions),
		Monthly:  []core.MonthlyRevenue{},
		Clients:  []core.ClientBreakdown{},
	}

	byMonth := map[core.MonthKey]*core.Totals{}
	byClient := map[int64]*core.ClientBreakdown{}

	for _, s := range sessions {
		if s.Status == core.Paid {
			res.PaidSessions++
		}
		c, ok := ix[s.ClientID]
		if !ok {
			res.Skipped++
			continue
		}

		key := core.MonthKeyOf(s.Date)
		bucket := byMonth[key]
		if bucket == nil {
			bucket = &core.Totals{}
			byMonth[key] = bucket
		}
		row := byClient[c.ID]
		if row == nil {
			row = &core.ClientBreakdown{ClientID: c.ID, Name: c.Name}
			byClient[c.ID] = row
		}
		row.TotalSessions++

		switch s.Status {
		case core.Paid:
			res.Totals.Paid = res.Totals.Paid.Add(c.Rate)
			bucket.Paid = bucket.Paid.Add(c.Rate)
			row.Paid = row.Paid.Add(c.Rate)
		case core.Unpaid:
			res.Totals.Unpaid = res.Totals.Unpaid.Add(c.Rate)
			bucket.Unpaid = bucket.Unpaid.Add(c.Rate)
			row.Unpaid = row.Unpaid.Add(c.Rate)
		}
	}

	keys := make([]core.MonthKey, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b core.MonthKey) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	for _, k := range keys {
		t := byMonth[k]
		res.Monthly = append(res.Monthly, core.MonthlyRevenue{Month: k.String(), Paid: t.Paid, Unpaid: t.Unpaid})
	}

	for _, row := range byClient {
		res.Clients = append(res.Clients, *row)
	}
	slices.SortFunc(res.Clients, func(a, b core.ClientBreakdown) int {
		if c := cmp.Compare(b.TotalSessions, a.TotalSessions); c != 0 {
			return c
		}
		return cmp.Compare(a.ClientID, b.ClientID)
	})
	res.ActiveClients = len(res.Clients)

	return res
}

// FilterRange keeps the sessions dated inside rng, bounds included.
func FilterRange(sessions []core.Session, rng core.DateRange) []core.Session {
	out := make([]core.Session, 0, len(sessions))
	for _, s := range sessions {
		if rng.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// FilterClient keeps the sessions of one client.
func FilterClient(sessions []core.Session, clientID int64) []core.Session {
	out := make([]core.Session, 0)
	for _, s := range sessions {
		if s.ClientID == clientID {
			out = append(out, s)
		}
	}
	return out
}

// CountByStatus counts clients per status value, ordered by status.
func CountByStatus(clients []core.Client) []core.StatusCount {
	counts := map[string]int{}
	for _, c := range clients {
		counts[c.Status]++
	}
	out := make([]core.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, core.StatusCount{Status: status, Count: n})
	}
	slices.SortFunc(out, func(a, b core.StatusCount) int {
		return cmp.Compare(a.Status, b.Status)
	})
	return out
}

// Join attaches client name and current rate to each session. Sessions whose
// client cannot be resolved are dropped; the second return value counts them.
func Join(sessions []core.Session, ix ClientIndex) ([]core.SessionView, int) {
	out := make([]core.SessionView, 0, len(sessions))
	skipped := 0
	for _, s := range sessions {
		c, ok := ix[s.ClientID]
		if !ok {
			skipped++
			continue
		}
		out = append(out, core.SessionView{
			ID:          s.ID,
			ClientID:    s.ClientID,
			ClientName:  c.Name,
			Rate:        c.Rate,
			Date:        s.Date,
			Time:        s.Time,
			Description: s.Description,
			Status:      s.Status,
		})
	}
	return out, skipped
}
