package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Paid   PaymentStatus = "paid"
	Unpaid PaymentStatus = "unpaid"
)

const (
	ClientActive   = "active"
	ClientInactive = "inactive"
)

// DateLayout is the ISO calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

type (
	PaymentStatus string

	// Date is a calendar day. The time part is always midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Client is a tutored student. Rate is the current price per session and has
	// no history: every report prices sessions with the rate as it is now.
	Client struct {
		ID        int64
		OwnerID   int64
		Name      string
		Rate      Money
		Status    string
		CreatedAt time.Time
	}

	// Session is one scheduled lesson. It carries no amount of its own.
	Session struct {
		ID          int64
		OwnerID     int64
		ClientID    int64
		Date        Date
		Time        string // HH:MM, 24h
		Description string
		Status      PaymentStatus
	}
)

var (
	ErrMissingDate   = errors.New("missing date")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidStatus = errors.New("invalid payment status")
	ErrInvalidTime   = errors.New("invalid session time")
	ErrEmptyName     = errors.New("empty client name")
	ErrMissingOwner  = errors.New("missing owner")
	ErrMissingClient = errors.New("missing client")
	ErrMissingPeriod = errors.New("year and month are required")
	ErrInvalidRange  = errors.New("invalid date range")
)

// ParsePaymentStatus accepts the canonical values and the labels used by the
// legacy dashboard ("Plătit" / "Neplătit").
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "plătit", "platit":
		return Paid, nil
	case "unpaid", "neplătit", "neplatit":
		return Unpaid, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (p PaymentStatus) Valid() bool {
	return p == Paid || p == Unpaid
}

func (p PaymentStatus) String() string {
	return string(p)
}

// Validate reports a date that was never set. Any non-zero Date is a real
// calendar day.
func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before and After compare calendar days.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// MarshalJSON renders the date as an ISO calendar date.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// ValidateTime checks a 24h HH:MM time of day.
func ValidateTime(s string) error {
	if _, err := time.Parse("15:04", s); err != nil || len(s) != 5 {
		return fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Client) Validate() error {
	if c.OwnerID <= 0 {
		return ErrMissingOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return errors.New("client name too long (max 200 characters)")
	}
	return c.Rate.Validate()
}

func (s Session) Validate() error {
	if s.OwnerID <= 0 {
		return ErrMissingOwner
	}
	if s.ClientID <= 0 {
		return ErrMissingClient
	}
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if err := ValidateTime(s.Time); err != nil {
		return err
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s.Status)
	}
	return nil
}

// UnmarshalJSON accepts an ISO calendar date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
