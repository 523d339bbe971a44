package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// WHY HELPERS?
// Without helpers, every handler repeats the same boilerplate:
//   w.Header().Set("Content-Type", "application/json")
//   w.WriteHeader(statusCode)
//   json.NewEncoder(w).Encode(data)
//
// With helpers, handlers are cleaner and more consistent:
//   writeJSON(w, logger, http.StatusOK, data)
//   writeError(w, r, logger, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from our API has the same shape:
//   {"msg": "No article was found with the id 99999"}
//
// Only NotFound carries a descriptive message. Everything else gets the
// standard status text ("Bad Request", "Internal Server Error") so that
// database detail never reaches the client.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/middleware"
)

// IncidentHeader carries the id under which a 5xx was logged.
const IncidentHeader = "X-Incident-Id"

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// You MUST set headers and status code BEFORE writing the body.
// Once you call w.Write() (which Encode does internally), the headers are sent.
// Any header changes after that are silently ignored.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError classifies err and sends the matching status and message.
//
// ERROR MAPPING:
// apperror.Classify is the single place where errors become HTTP. The
// handler never inspects errors itself, it only forwards them here.
//
// INCIDENT IDS:
// A 5xx response hides the cause from the client. The full error is logged
// together with a fresh xid, and the same id is returned in X-Incident-Id so
// a bug report can be matched to the log line.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	c := apperror.Classify(err)
	middleware.RecordError(apperror.CategoryName(c.Category))

	if c.Internal() {
		incident := xid.New().String()
		w.Header().Set(IncidentHeader, incident)
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("incident_id", incident),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	} else {
		logger.DebugContext(r.Context(), "request rejected",
			slog.Int("status", c.Status),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, logger, c.Status, ErrorResponse{Msg: c.Message})
}

// NotFound answers requests for routes that do not exist.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusNotFound, ErrorResponse{Msg: "Route not found"})
	}
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusMethodNotAllowed, ErrorResponse{Msg: http.StatusText(http.StatusMethodNotAllowed)})
	}
}
