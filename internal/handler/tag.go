package handler

import (
	"log/slog"
	"net/http"

	"qatrack/internal/domain/services"
	"qatrack/internal/httputil"
)

// TagHandler handles project-wide tag maintenance requests
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

// RenameTag renames a tag across every requirement in the project
// POST /api/projects/{id}/tags/rename
func (h *TagHandler) RenameTag(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req services.RenameTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.tagService.RenameTag(r.Context(), projectID, req.OldTag, req.NewTag)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// DeleteTag removes a tag from every requirement in the project
// POST /api/projects/{id}/tags/delete
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req services.DeleteTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.tagService.DeleteTag(r.Context(), projectID, req.Tag)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
