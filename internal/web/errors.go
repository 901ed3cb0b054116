package web

// errors.go turns errors into JSON responses.
//
// Every error is logged with its technical detail and the request id, then
// mapped through core.MapError so clients only ever see the user message,
// the suggested action and a code they can quote to support.

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/store"
	"github.com/go-chi/chi/v5/middleware"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// respondError logs err and writes its user-facing form.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	respondErrorDetails(w, r, err, status, nil)
}

// respondErrorDetails is respondError with extra structured details, such as
// per-file parse results, attached to the body.
func respondErrorDetails(w http.ResponseWriter, r *http.Request, err error, status int, details any) {
	msg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"ip", core.GetIPAddressFromContext(r.Context()),
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Details: details,
	})
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrNoSession), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNoFiles),
		errors.Is(err, core.ErrNoWorkbooks),
		errors.Is(err, core.ErrTooManyFiles),
		errors.Is(err, core.ErrInvalidRowIndex):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoRecords):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
