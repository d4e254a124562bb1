package handler

import (
	"log/slog"
	"net/http"

	"dokudoku/internal/domain/services"
	"dokudoku/internal/httputil"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tagService services.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService services.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// ListTags lists the caller's tags with usage counts
// GET /api/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	tags, err := h.tagService.ListTags(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tags)
}

// CreateTag creates a new tag
// POST /api/tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.CreateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.OwnerID = userID

	tag, err := h.tagService.CreateTag(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tag)
}

// UpdateTag renames a tag and/or changes its color
// PATCH /api/tags/{id}
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tag ID is required")
		return
	}

	var req services.UpdateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tag, err := h.tagService.UpdateTag(r.Context(), userID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tag)
}

// DeleteTag deletes an unused tag
// DELETE /api/tags/{id}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tag ID is required")
		return
	}

	if err := h.tagService.DeleteTag(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
