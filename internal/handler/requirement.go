package handler

import (
	"log/slog"
	"net/http"

	"qatrack/internal/domain/services"
	"qatrack/internal/httputil"
)

// RequirementHandler handles requirement HTTP requests
type RequirementHandler struct {
	reqService services.RequirementService
	logger     *slog.Logger
}

// NewRequirementHandler creates a new requirement handler
func NewRequirementHandler(reqService services.RequirementService, logger *slog.Logger) *RequirementHandler {
	return &RequirementHandler{
		reqService: reqService,
		logger:     logger,
	}
}

// ListRequirements retrieves all requirements in a project
// GET /api/projects/{id}/requirements
func (h *RequirementHandler) ListRequirements(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	requirements, err := h.reqService.ListRequirements(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requirements)
}

// CreateRequirement creates a new requirement
// POST /api/requirements
func (h *RequirementHandler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req services.CreateRequirementRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.AuthorID = httputil.GetUserID(r)

	requirement, err := h.reqService.CreateRequirement(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, requirement)
}

// GetRequirement retrieves a requirement by ID
// GET /api/requirements/{id}?project_id=:id
func (h *RequirementHandler) GetRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Requirement ID")
	if !ok {
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project_id query parameter is required")
		return
	}

	requirement, err := h.reqService.GetRequirement(r.Context(), id, projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requirement)
}

// UpdateRequirement updates a requirement
// PATCH /api/requirements/{id}
func (h *RequirementHandler) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Requirement ID")
	if !ok {
		return
	}

	var req services.UpdateRequirementRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	requirement, err := h.reqService.UpdateRequirement(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requirement)
}

// DeleteRequirement deletes a requirement
// DELETE /api/requirements/{id}?project_id=:id
func (h *RequirementHandler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Requirement ID")
	if !ok {
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project_id query parameter is required")
		return
	}

	if err := h.reqService.DeleteRequirement(r.Context(), id, projectID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BatchMove moves a set of requirements into a target folder
// POST /api/requirements/batch-move
func (h *RequirementHandler) BatchMove(w http.ResponseWriter, r *http.Request) {
	var req services.BatchMoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.reqService.BatchMove(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck reports service liveness
// GET /health
func (h *RequirementHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
