package handler

import (
	"log/slog"
	"net/http"

	"dokudoku/internal/domain/services"
	"dokudoku/internal/httputil"
)

// ShareHandler handles document share HTTP requests
type ShareHandler struct {
	shareService services.ShareService
	logger       *slog.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService services.ShareService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		logger:       logger,
	}
}

// GrantShare gives a user VIEW or EDIT on a document
// POST /api/documents/{id}/share
func (h *ShareHandler) GrantShare(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req services.GrantShareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	share, err := h.shareService.GrantShare(r.Context(), userID, documentID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, share)
}

// ListShares lists all grants on a document
// GET /api/documents/{id}/shares
func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	shares, err := h.shareService.ListShares(r.Context(), userID, documentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, shares)
}

// RevokeShare removes a user's grant on a document
// DELETE /api/documents/{id}/shares/{userId}
func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	documentID := r.PathValue("id")
	targetUserID := r.PathValue("userId")
	if documentID == "" || targetUserID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID and user ID are required")
		return
	}

	if err := h.shareService.RevokeShare(r.Context(), userID, documentID, targetUserID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
