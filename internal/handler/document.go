package handler

import (
	"log/slog"
	"net/http"

	"dokudoku/internal/domain/services"
	"dokudoku/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// CreateDocument records an uploaded document's metadata
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.OwnerID = userID

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document with its tags
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListDocuments lists the caller's documents, optionally filtered to one
// folder via ?folder_id=<id> (empty value = unfiled)
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var folderID *string
	filterByFolder := r.URL.Query().Has("folder_id")
	if filterByFolder {
		if v := r.URL.Query().Get("folder_id"); v != "" {
			folderID = &v
		}
	}

	docs, err := h.docService.ListDocuments(r.Context(), userID, folderID, filterByFolder)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// UpdateDocument renames a document
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req services.RenameDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.RenameDocument(r.Context(), userID, id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// MoveDocument files a document into a folder
// PATCH /api/documents/{id}/move
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req services.MoveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.MoveDocument(r.Context(), userID, id, req.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttachTag attaches one of the caller's tags to a document
// POST /api/documents/{id}/tags
func (h *DocumentHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req services.AttachTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TagID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tag_id is required")
		return
	}

	if err := h.docService.AttachTag(r.Context(), userID, id, req.TagID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DetachTag removes one tag association from a document
// DELETE /api/documents/{id}/tags/{tagId}
func (h *DocumentHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	tagID := r.PathValue("tagId")
	if id == "" || tagID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID and tag ID are required")
		return
	}

	if err := h.docService.DetachTag(r.Context(), userID, id, tagID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck reports service liveness
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
