package handler

import (
	"errors"
	"net/http"

	"dokudoku/internal/domain"
	"dokudoku/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var corruptErr *domain.CorruptTreeError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrConflict):
		// Serialization failures and other bare conflicts; the client
		// may retry
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &corruptErr):
		// Stored hierarchy is broken; nothing the caller did, nothing
		// the caller can fix
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
