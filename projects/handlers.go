package projects

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/auth"
	"github.com/user/lifeos-go/validation"
)

// Handlers provides the project HTTP endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates project Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the project routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/stats", h.handleStats)
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("user not resolved in context", nil))
	}
	return id, ok
}

// handleList godoc
// @Summary List the caller's projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Project
// @Router /projects [get]
func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	projects, err := h.service.List(r.Context(), uid)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	if projects == nil {
		projects = []Project{}
	}
	auth.WriteJSON(w, http.StatusOK, projects)
}

// handleCreate godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body CreateProjectRequest true "Project"
// @Success 201 {object} Project
// @Failure 409 {object} apperror.ErrorResponse "An active project with this name already exists"
// @Router /projects [post]
func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	project, err := h.service.Create(r.Context(), uid, &req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, project)
}

// handleGet godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Success 200 {object} Project
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /projects/{id} [get]
func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	project, err := h.service.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, project)
}

// handleUpdate godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Param project body UpdateProjectRequest true "Fields to update"
// @Success 200 {object} Project
// @Router /projects/{id} [put]
func (h *Handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	project, err := h.service.Update(r.Context(), uid, chi.URLParam(r, "id"), &req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, project)
}

// handleDelete godoc
// @Summary Delete a project
// @Description Tasks assigned to the project are detached, not deleted.
// @Tags projects
// @Security BearerAuth
// @Param id path string true "Project id"
// @Success 204 "Deleted"
// @Router /projects/{id} [delete]
func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStats godoc
// @Summary Project with its tasks and aggregate counts
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Success 200 {object} StatsResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /projects/{id}/stats [get]
func (h *Handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.Stats(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, resp)
}
