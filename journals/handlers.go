package journals

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/auth"
	"github.com/user/lifeos-go/validation"
)

// Handlers provides the journal HTTP endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates journal Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the journal routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/today", h.handleToday)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("user not resolved in context", nil))
	}
	return id, ok
}

// handleList godoc
// @Summary List the caller's journal entries, newest first
// @Tags journals
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries to return (default 30)"
// @Success 200 {array} Journal
// @Router /journals [get]
func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	journals, err := h.service.List(r.Context(), uid, limit)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	if journals == nil {
		journals = []Journal{}
	}
	auth.WriteJSON(w, http.StatusOK, journals)
}

// handleCreate godoc
// @Summary Create a journal entry
// @Tags journals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param journal body CreateJournalRequest true "Journal entry"
// @Success 201 {object} Journal
// @Failure 409 {object} apperror.ErrorResponse "An entry for this day already exists"
// @Router /journals [post]
func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	journal, err := h.service.Create(r.Context(), uid, &req, time.Now())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, journal)
}

// handleToday godoc
// @Summary Find or create today's journal entry
// @Tags journals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Journal
// @Router /journals/today [get]
func (h *Handlers) handleToday(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	journal, err := h.service.EnsureToday(r.Context(), uid, time.Now())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, journal)
}

// handleGet godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Journal id"
// @Success 200 {object} Journal
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /journals/{id} [get]
func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	journal, err := h.service.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, journal)
}

// handleUpdate godoc
// @Summary Update a journal entry
// @Tags journals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Journal id"
// @Param journal body UpdateJournalRequest true "Fields to update"
// @Success 200 {object} Journal
// @Router /journals/{id} [put]
func (h *Handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req UpdateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	journal, err := h.service.Update(r.Context(), uid, chi.URLParam(r, "id"), &req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, journal)
}

// handleDelete godoc
// @Summary Delete a journal entry and its habit logs
// @Tags journals
// @Security BearerAuth
// @Param id path string true "Journal id"
// @Success 204 "Deleted"
// @Router /journals/{id} [delete]
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
