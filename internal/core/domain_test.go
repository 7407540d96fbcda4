package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{NewDate(2024, 2, 29), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrMissingDate) {
			t.Fatalf("case %d expected ErrMissingDate, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(NewDate(2024, 2, 29)) || d.String() != "2024-02-29" {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("2023-02-29"); err == nil {
		t.Fatalf("expected error for non-existent day")
	}
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 22:30 UTC on the 1st is already the 2nd at UTC+3.
	ts := time.Date(2025, 3, 1, 22, 30, 0, 0, time.UTC).In(loc)
	if got := DateOf(ts); !got.Equal(NewDate(2025, 3, 2)) {
		t.Fatalf("DateOf = %s, want 2025-03-02", got)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	cases := map[string]PaymentStatus{
		"paid":     Paid,
		"Unpaid":   Unpaid,
		"Plătit":   Paid,
		"Neplătit": Unpaid,
	}
	for in, want := range cases {
		got, err := ParsePaymentStatus(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v, want %q", in, got, err, want)
		}
	}
	if _, err := ParsePaymentStatus("maybe"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSessionValidate(t *testing.T) {
	good := Session{OwnerID: 1, ClientID: 2, Date: NewDate(2025, 1, 1), Time: "09:30", Status: Paid}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Session{
		{OwnerID: 0, ClientID: 2, Date: NewDate(2025, 1, 1), Time: "09:30", Status: Paid},
		{OwnerID: 1, ClientID: 0, Date: NewDate(2025, 1, 1), Time: "09:30", Status: Paid},
		{OwnerID: 1, ClientID: 2, Time: "09:30", Status: Paid},
		{OwnerID: 1, ClientID: 2, Date: NewDate(2025, 1, 1), Time: "9:30", Status: Paid},
		{OwnerID: 1, ClientID: 2, Date: NewDate(2025, 1, 1), Time: "25:00", Status: Paid},
		{OwnerID: 1, ClientID: 2, Date: NewDate(2025, 1, 1), Time: "09:30", Status: "partial"},
	}
	for i, s := range bads {
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestClientValidate(t *testing.T) {
	if err := (Client{OwnerID: 1, Name: "Ana", Rate: Money{Cents: 10000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Client{OwnerID: 1, Name: " ", Rate: Money{Cents: 1}}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Client{OwnerID: 1, Name: "Ana", Rate: Money{Cents: -1}}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
