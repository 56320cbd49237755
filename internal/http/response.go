package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"moneybot/internal/analytics"
	"moneybot/internal/auth"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/store"
)

// errorBody matches the {"detail": "..."} shape API clients already expect.
type errorBody struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Detail: message})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, analytics.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the mapped status. Internal errors are logged and
// their text is not exposed.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		respondError(w, status, "Transaction not found")
	case http.StatusInternalServerError:
		log.FromContext(r.Context()).Fields(r.Context(), slog.LevelError, "Request failed",
			log.NewFields().WithOperation(op).WithError(err))
		respondError(w, status, "Internal Server Error")
	default:
		respondError(w, status, err.Error())
	}
}

func (s *Server) authError(w http.ResponseWriter, _ *http.Request, err error) {
	atomic.AddInt64(&s.metrics.authFailures, 1)
	w.Header().Set("WWW-Authenticate", "Bearer")
	if errors.Is(err, auth.ErrMissingToken) {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	respondError(w, http.StatusUnauthorized, "Invalid token or expired")
}
