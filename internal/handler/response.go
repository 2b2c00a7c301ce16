package handler

// RESPONSE HELPERS:
// Every JSON response goes through writeJSON, every failure through
// writeError, so the /lookup error shapes stay in one place:
//
//	400 {"error": "missing id"} / {"error": "invalid id"}
//	404 {"message": "user not found"}
//	502 {"error": "<upstream message>"}
//	500 {"error": "internal error"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/discord-lookup/internal/apperror"
)

// ErrorResponse is the failure body. The widget shows Error verbatim.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotFoundResponse deliberately carries neither "id" nor "error": the widget
// reads that shape as "not found".
type NotFoundResponse struct {
	Message string `json:"message"`
}

const msgUserNotFound = "user not found"

// writeJSON sets headers and status before the body; once Encode writes,
// headers can no longer change.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and body. Messages come
// from apperror; anything else becomes a generic 500 so internal details
// never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
	case errors.Is(err, apperror.ErrNotFound):
		writeJSON(w, http.StatusNotFound, NotFoundResponse{Message: msgUserNotFound})
	case errors.Is(err, apperror.ErrUpstream), errors.Is(err, apperror.ErrTransport):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: appErr.Message})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// HandleRateLimited answers a request rejected by the rate limiter.
func HandleRateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
}
