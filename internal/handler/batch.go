package handler

import (
	"log/slog"
	"net/http"

	"dokudoku/internal/domain/services"
	"dokudoku/internal/httputil"
)

// BatchHandler handles batch document mutation HTTP requests
type BatchHandler struct {
	batchService services.BatchService
	logger       *slog.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(batchService services.BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
		logger:       logger,
	}
}

// BatchMove files every listed document into one folder
// PATCH /api/documents/batch/move
func (h *BatchHandler) BatchMove(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.BatchMoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	affected, err := h.batchService.BatchMove(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, services.BatchResult{Affected: affected})
}

// BatchDelete removes every listed document
// DELETE /api/documents/batch
func (h *BatchHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.BatchDeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	affected, err := h.batchService.BatchDelete(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, services.BatchResult{Affected: affected})
}

// BatchAddTags attaches every listed tag to every listed document
// PATCH /api/documents/batch/tag
func (h *BatchHandler) BatchAddTags(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.BatchTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	affected, err := h.batchService.BatchAddTags(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, services.BatchResult{Affected: affected})
}
