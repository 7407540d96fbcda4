package core

import "fmt"

// MonthKey identifies a calendar-month bucket.
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// MonthKeyOf returns the bucket a date falls into.
func MonthKeyOf(d Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// String formats the key as YYYY-MM.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// Less orders keys chronologically.
func (k MonthKey) Less(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Totals splits an amount by payment status.
type Totals struct {
	Paid   Money `json:"paid"`
	Unpaid Money `json:"unpaid"`
}

// Total is Paid + Unpaid.
func (t Totals) Total() Money {
	return t.Paid.Add(t.Unpaid)
}

// MonthlyRevenue is one bucket of the financial time series.
type MonthlyRevenue struct {
	Month  string `json:"month"` // YYYY-MM
	Paid   Money  `json:"paid"`
	Unpaid Money  `json:"unpaid"`
}

// ClientBreakdown is the per-client revenue row.
type ClientBreakdown struct {
	ClientID      int64  `json:"id"`
	Name          string `json:"studentName"`
	TotalSessions int    `json:"totalSessions"`
	Paid          Money  `json:"paid"`
	Unpaid        Money  `json:"unpaid"`
}

// StatusCount counts clients sharing a status value.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SessionView is a session joined with its client's name and current rate.
type SessionView struct {
	ID          int64         `json:"id"`
	ClientID    int64         `json:"clientId"`
	ClientName  string        `json:"studentName"`
	Rate        Money         `json:"rate"`
	Date        Date          `json:"sessionDate"`
	Time        string        `json:"sessionTime"`
	Description string        `json:"description"`
	Status      PaymentStatus `json:"paymentStatus"`
}

// Dashboard is the landing-page snapshot.
type Dashboard struct {
	TotalClients     int           `json:"totalClients"`
	TotalSessions    int           `json:"totalSessions"`
	PaidSessions     int           `json:"paidSessions"`
	UnpaidAmount     Money         `json:"unpaidAmount"`
	TodaySessions    []SessionView `json:"todaySessions"`
	UpcomingSessions []SessionView `json:"upcomingSessions"`
	UnpaidSessions   []SessionView `json:"unpaidSessions"`
}

// FinancialSummary covers a trailing window plus all-time totals.
type FinancialSummary struct {
	Period          DateRange         `json:"-"`
	MonthlyRevenue  []MonthlyRevenue  `json:"monthlyRevenue"`
	TotalPaid       Money             `json:"totalPaid"`
	TotalUnpaid     Money             `json:"totalUnpaid"`
	ClientBreakdown []ClientBreakdown `json:"clientBreakdown"`
}

// MonthlySummary is the fixed-period report for one calendar month.
type MonthlySummary struct {
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	TotalSessions int               `json:"totalSessions"`
	ActiveClients int               `json:"activeClients"`
	TotalPaid     Money             `json:"totalPaid"`
	TotalUnpaid   Money             `json:"totalUnpaid"`
	ClientDetails []ClientBreakdown `json:"clientDetails"`
}

// ClientStats is the all-time summary for a single client.
type ClientStats struct {
	ClientID      int64 `json:"clientId"`
	TotalSessions int   `json:"totalSessions"`
	TotalPaid     Money `json:"totalPaid"`
	TotalUnpaid   Money `json:"totalUnpaid"`
}

// PeriodSummary is the report for an explicit inclusive date range.
type PeriodSummary struct {
	From          Date              `json:"from"`
	To            Date              `json:"to"`
	TotalSessions int               `json:"totalSessions"`
	ActiveClients int               `json:"activeClients"`
	TotalPaid     Money             `json:"totalPaid"`
	TotalUnpaid   Money             `json:"totalUnpaid"`
	ClientDetails []ClientBreakdown `json:"clientDetails"`
}
