package core

import (
	"errors"
	"testing"
)

func TestMonthRangeEndsOnLastCalendarDay(t *testing.T) {
	tests := []struct {
		year, month int
		wantEnd     Date
	}{
		{2023, 2, NewDate(2023, 2, 28)},
		{2024, 2, NewDate(2024, 2, 29)},
		{1900, 2, NewDate(1900, 2, 28)},
		{2000, 2, NewDate(2000, 2, 29)},
		{2025, 4, NewDate(2025, 4, 30)},
		{2025, 12, NewDate(2025, 12, 31)},
	}
	for _, tt := range tests {
		r, err := MonthRange(tt.year, tt.month)
		if err != nil {
			t.Fatalf("MonthRange(%d, %d): %v", tt.year, tt.month, err)
		}
		if !r.Start.Equal(NewDate(tt.year, tt.month, 1)) {
			t.Errorf("MonthRange(%d, %d) start = %s", tt.year, tt.month, r.Start)
		}
		if !r.End.Equal(tt.wantEnd) {
			t.Errorf("MonthRange(%d, %d) end = %s, want %s", tt.year, tt.month, r.End, tt.wantEnd)
		}
	}
}

func TestMonthRangeErrors(t *testing.T) {
	if _, err := MonthRange(0, 3); !errors.Is(err, ErrMissingPeriod) {
		t.Errorf("missing year: got %v", err)
	}
	if _, err := MonthRange(2025, 0); !errors.Is(err, ErrMissingPeriod) {
		t.Errorf("missing month: got %v", err)
	}
	if _, err := MonthRange(2025, 13); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("month 13: got %v", err)
	}
}

func TestTrailingMonths(t *testing.T) {
	tests := []struct {
		name      string
		today     Date
		n         int
		wantStart Date
	}{
		{"default six months", NewDate(2025, 8, 15), 0, NewDate(2025, 2, 15)},
		{"crosses year", NewDate(2025, 2, 10), 3, NewDate(2024, 11, 10)},
		{"clamps to short month", NewDate(2025, 3, 31), 1, NewDate(2025, 2, 28)},
		{"clamps to leap day", NewDate(2024, 3, 31), 1, NewDate(2024, 2, 29)},
		{"twelve months", NewDate(2025, 1, 31), 12, NewDate(2024, 1, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := TrailingMonths(tt.today, tt.n)
			if err != nil {
				t.Fatalf("TrailingMonths: %v", err)
			}
			if !r.Start.Equal(tt.wantStart) || !r.End.Equal(tt.today) {
				t.Fatalf("got %s, want %s..%s", r, tt.wantStart, tt.today)
			}
		})
	}

	if _, err := TrailingMonths(NewDate(2025, 1, 1), -1); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("negative months: got %v", err)
	}
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange(NewDate(2025, 1, 1), NewDate(2025, 1, 1))
	if err != nil {
		t.Fatalf("single-day range: %v", err)
	}
	if !r.Contains(NewDate(2025, 1, 1)) {
		t.Fatalf("single-day range must contain its bound")
	}
	if _, err := NewDateRange(NewDate(2025, 2, 1), NewDate(2025, 1, 31)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestDateRangeContainsBounds(t *testing.T) {
	r, _ := MonthRange(2025, 6)
	for _, d := range []Date{NewDate(2025, 6, 1), NewDate(2025, 6, 30), NewDate(2025, 6, 15)} {
		if !r.Contains(d) {
			t.Errorf("%s should be inside %s", d, r)
		}
	}
	for _, d := range []Date{NewDate(2025, 5, 31), NewDate(2025, 7, 1)} {
		if r.Contains(d) {
			t.Errorf("%s should be outside %s", d, r)
		}
	}
}

func TestAddMonthsClampedNegativeYears(t *testing.T) {
	got := AddMonthsClamped(NewDate(1, 1, 15), -1)
	if got.Year() != 0 || got.Month() != 12 || got.Day() != 15 {
		t.Fatalf("got %04d-%02d-%02d", got.Year(), got.Month(), got.Day())
	}
}
