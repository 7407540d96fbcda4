package core

import (
	"fmt"
	"time"
)

// DefaultMonthsBack is the trailing window used when no month count is given.
const DefaultMonthsBack = 6

// DateRange is an inclusive calendar interval [Start, End].
type DateRange struct {
	Start Date
	End   Date
}

// NewDateRange builds an explicit range. Both bounds are taken as given.
func NewDateRange(start, end Date) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, fmt.Errorf("%w: both bounds are required", ErrInvalidRange)
	}
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return DateRange{Start: start, End: end}, nil
}

// TrailingMonths returns [today - n months, today]. n == 0 selects
// DefaultMonthsBack. When today's day does not exist in the start month the
// start clamps to that month's last day (31 March minus one month is the last
// day of February).
func TrailingMonths(today Date, n int) (DateRange, error) {
	if n < 0 {
		return DateRange{}, fmt.Errorf("%w: months back must not be negative, got %d", ErrInvalidRange, n)
	}
	if n == 0 {
		n = DefaultMonthsBack
	}
	return DateRange{Start: AddMonthsClamped(today, -n), End: today}, nil
}

// MonthRange returns the first through the last calendar day of year/month.
func MonthRange(year, month int) (DateRange, error) {
	if year == 0 || month == 0 {
		return DateRange{}, ErrMissingPeriod
	}
	if month < 1 || month > 12 {
		return DateRange{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if year < 1 {
		return DateRange{}, fmt.Errorf("%w: year %d", ErrInvalidRange, year)
	}
	return DateRange{
		Start: NewDate(year, month, 1),
		End:   NewDate(year, month, DaysIn(year, month)),
	}, nil
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped shifts d by n calendar months, clamping the day to the
// length of the target month instead of overflowing into the next one.
func AddMonthsClamped(d Date, n int) Date {
	total := d.Year()*12 + (d.Month() - 1) + n
	year, month := total/12, total%12+1
	if total < 0 {
		year, month = (total-11)/12, (total%12+12)%12+1
	}
	day := d.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}
