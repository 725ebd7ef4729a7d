package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/seantiz/catsapi/internal/cats"
	"github.com/seantiz/catsapi/internal/deadline"
)

// statusClientClosedRequest is the non-standard status used when the caller's
// context ends, by cancellation or by its own deadline, before the endpoint
// finishes.
const statusClientClosedRequest = 499

// HTTPError is an error that carries its own HTTP status.
type HTTPError struct {
	Status  int
	Message string
	Details []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func statusText(code int) string {
	if code == statusClientClosedRequest {
		return "Client Closed Request"
	}
	return http.StatusText(code)
}

func newHTTPError(status int, message string, details ...string) *HTTPError {
	if message == "" {
		message = statusText(status)
	}
	return &HTTPError{Status: status, Message: message, Details: details}
}

func errBadRequest(message string, details ...string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, details...)
}

func errForbidden() *HTTPError {
	return newHTTPError(http.StatusForbidden, "")
}

// errorResponse is the JSON body written for every failed request.
type errorResponse struct {
	StatusCode int      `json:"status_code"`
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	Path       string   `json:"path"`
	Timestamp  string   `json:"timestamp"`
	RequestID  string   `json:"request_id,omitempty"`
}

// toHTTPError maps an endpoint error onto an HTTPError. Unknown errors become
// a 500 and are reported as such.
func toHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	switch {
	case errors.As(err, &he):
		return he, true
	case deadline.IsTimeout(err):
		return newHTTPError(http.StatusRequestTimeout, ""), true
	case errors.Is(err, cats.ErrNotFound):
		return newHTTPError(http.StatusNotFound, err.Error()), true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newHTTPError(statusClientClosedRequest, ""), true
	default:
		return newHTTPError(http.StatusInternalServerError, ""), false
	}
}

// writeException is the exception filter: it renders any endpoint error as
// an errorResponse.
func (s *Server) writeException(w http.ResponseWriter, r *http.Request, err error) {
	he, known := toHTTPError(err)
	reqID := middleware.GetReqID(r.Context())

	switch {
	case !known:
		s.logger.Error("unhandled error", "path", r.URL.Path, "request_id", reqID, "error", err)
	case he.Status == http.StatusRequestTimeout:
		s.logger.Warn("request timed out",
			"path", r.URL.Path,
			"request_id", reqID,
			"timeout", s.deadline.Duration().String(),
		)
	}

	s.writeJSON(w, he.Status, errorResponse{
		StatusCode: he.Status,
		Error:      statusText(he.Status),
		Message:    he.Message,
		Details:    he.Details,
		Path:       r.URL.Path,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		RequestID:  reqID,
	})
}
