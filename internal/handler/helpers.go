package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"filedesk/internal/domain"
	"filedesk/internal/httputil"
)

// Envelope error codes
const (
	codeValidation = "validation_failed"
	codeNotFound   = "not_found"
	codeConflict   = "already_exists"
	codeInternal   = "internal_error"
)

// handleError converts domain errors to failure envelopes. Anything
// unclassified is a store failure and keeps the store's own message.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error(), codeConflict)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error(), codeValidation)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error(), codeNotFound)
	default:
		slog.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, err.Error(), codeInternal)
	}
}

// handleBadBody reports an unparseable request body
func handleBadBody(w http.ResponseWriter, err error) {
	httputil.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
}
