// Package handler implements the HTTP layer: request parsing, payload
// validation, and the mapping of domain errors to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/identity-service/internal/apperror"
)

// ErrorResponse is the standard error shape returned by every endpoint:
//
//	{"error": "validation_error", "message": "username already exists"}
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body; encoding failures after that can
// only be logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its status code and sends it.
//
// The service layer returns apperror-classified errors, possibly wrapped;
// errors.Is/errors.As walk the chain. Anything unclassified is an
// unexpected fault and becomes a bare 500; the raw error never reaches
// the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			errorType = "unauthenticated"
			w.Header().Set("WWW-Authenticate", "Bearer")
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
