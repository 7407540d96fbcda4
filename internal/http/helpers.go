package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tutorbook/internal/core"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/services"
	"tutorbook/internal/stats"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes {"error": "..."}.
// Server-side failures are logged; internal errors are not echoed back.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		tlog.FromContext(r.Context()).ErrorContext(r.Context(), "Report request failed",
			tlog.FieldError, err,
			tlog.FieldPath, r.URL.Path)
	}
	switch {
	case errors.Is(err, services.ErrExportDisabled):
		msg = services.ErrExportDisabled.Error()
	case errors.Is(err, services.ErrExportUnavailable):
		msg = services.ErrExportUnavailable.Error()
	case status == http.StatusInternalServerError:
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func statusFor(err error) int {
	var pe *paramError
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &pe),
		errors.Is(err, core.ErrInvalidRange),
		errors.Is(err, core.ErrMissingPeriod),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrMissingOwner),
		errors.Is(err, core.ErrMissingClient):
		return http.StatusBadRequest
	case errors.Is(err, stats.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrExportDisabled),
		errors.Is(err, services.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
