package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"tutorbook/internal/core"
)

func TestOwnerFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    int64
		wantErr bool
	}{
		{"valid", "7", 7, false},
		{"surrounding spaces", " 7 ", 7, false},
		{"missing", "", 0, true},
		{"not a number", "abc", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(HeaderOwnerID, tt.header)
			}
			got, err := ownerFromRequest(r)
			if tt.wantErr {
				if !errors.Is(err, errUnauthenticated) {
					t.Fatalf("err = %v, want errUnauthenticated", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ownerFromRequest() = %d, %v; want %d", got, err, tt.want)
			}
		})
	}
}

func TestParseMonthParams(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    MonthParams
		wantErr bool
	}{
		{"both values provided", url.Values{"year": {"2024"}, "month": {"12"}}, MonthParams{2024, 12}, false},
		{"missing values stay zero", url.Values{}, MonthParams{}, false},
		{"only year", url.Values{"year": {"2024"}}, MonthParams{Year: 2024}, false},
		{"out of range passes through", url.Values{"year": {"2024"}, "month": {"13"}}, MonthParams{2024, 13}, false},
		{"non-numeric month", url.Values{"year": {"2024"}, "month": {"feb"}}, MonthParams{}, true},
		{"non-numeric year", url.Values{"year": {"x"}, "month": {"2"}}, MonthParams{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthParams(tt.query)
			if tt.wantErr {
				var pe *paramError
				if !errors.As(err, &pe) {
					t.Fatalf("err = %v, want paramError", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseMonthParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMonthsBack(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"3", 3, false},
		{"-1", -1, false},
		{"three", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMonthsBack(url.Values{"months": {tt.raw}})
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseMonthsBack(%q) = %d, %v", tt.raw, got, err)
			}
		})
	}
}

func TestParseDateRangeParams(t *testing.T) {
	from, to, err := ParseDateRangeParams(url.Values{"from": {"2024-02-01"}, "to": {"2024-02-29"}})
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(core.NewDate(2024, 2, 1)) || !to.Equal(core.NewDate(2024, 2, 29)) {
		t.Errorf("range = %s..%s", from, to)
	}

	from, to, err = ParseDateRangeParams(url.Values{})
	if err != nil || !from.IsZero() || !to.IsZero() {
		t.Errorf("missing bounds should be zero, got %s..%s err=%v", from, to, err)
	}

	_, _, err = ParseDateRangeParams(url.Values{"from": {"2024-02-30"}})
	var pe *paramError
	if !errors.As(err, &pe) || pe.Name != "from" {
		t.Errorf("err = %v, want paramError for from", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errUnauthenticated, http.StatusUnauthorized},
		{&paramError{Name: "year", Value: "x"}, http.StatusBadRequest},
		{core.ErrMissingPeriod, http.StatusBadRequest},
		{core.ErrInvalidMonth, http.StatusBadRequest},
		{core.ErrInvalidRange, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
