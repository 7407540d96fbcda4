// Package http exposes the reports as a JSON API.
//
// This file extracts the owner and the report parameters from requests.
// Parsing only checks syntax; range rules (month 1-12, start before end, ...)
// are left to the report service so every caller gets the same errors.
package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tutorbook/internal/core"
)

// HeaderOwnerID carries the authenticated owner, set by the gateway.
const HeaderOwnerID = "X-Owner-ID"

var errUnauthenticated = errors.New("missing or invalid owner")

// paramError reports a query or path parameter that is not well formed.
type paramError struct {
	Name  string
	Value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Name, e.Value)
}

// ownerFromRequest returns the owner ID from the gateway header.
func ownerFromRequest(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.Header.Get(HeaderOwnerID))
	if v == "" {
		return 0, errUnauthenticated
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errUnauthenticated
	}
	return id, nil
}

// optionalInt parses an integer parameter. Absent or blank gives 0.
func optionalInt(q url.Values, name string) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &paramError{Name: name, Value: v}
	}
	return n, nil
}

// ParseMonthsBack reads ?months=N. Absent selects the default window.
func ParseMonthsBack(q url.Values) (int, error) {
	return optionalInt(q, "months")
}

// MonthParams holds year/month from the query string. Zero means absent.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams reads ?year=Y&month=M. Missing values stay zero and are
// rejected later as a missing period; there is no "current month" default.
func ParseMonthParams(q url.Values) (MonthParams, error) {
	year, err := optionalInt(q, "year")
	if err != nil {
		return MonthParams{}, err
	}
	month, err := optionalInt(q, "month")
	if err != nil {
		return MonthParams{}, err
	}
	return MonthParams{Year: year, Month: month}, nil
}

// ParseDateRangeParams reads ?from=YYYY-MM-DD&to=YYYY-MM-DD. Missing bounds
// stay zero.
func ParseDateRangeParams(q url.Values) (from, to core.Date, err error) {
	parse := func(name string) (core.Date, error) {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			return core.Date{}, nil
		}
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Date{}, &paramError{Name: name, Value: v}
		}
		return d, nil
	}
	if from, err = parse("from"); err != nil {
		return core.Date{}, core.Date{}, err
	}
	if to, err = parse("to"); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return from, to, nil
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, error) {
	v := r.PathValue(name)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, &paramError{Name: name, Value: v}
	}
	return id, nil
}
