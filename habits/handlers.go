package habits

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/auth"
	"github.com/user/lifeos-go/validation"
)

// Handlers provides the habit HTTP endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates habit Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the habit routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/log", h.handleGetLog)
	r.Patch("/{id}/log", h.handleSetLog)
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
// @Summary List the caller's habits
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Habit
// @Router /habits [get]
func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	habits, err := h.service.List(r.Context(), uid)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	if habits == nil {
		habits = []Habit{}
	}
	auth.WriteJSON(w, http.StatusOK, habits)
}

// handleCreate godoc
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param habit body CreateHabitRequest true "Habit"
// @Success 201 {object} Habit
// @Failure 409 {object} apperror.ErrorResponse "A habit with this name already exists"
// @Router /habits [post]
func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	habit, err := h.service.Create(r.Context(), uid, &req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, habit)
}

// handleGet godoc
// @Summary Get a habit
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit id"
// @Success 200 {object} Habit
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /habits/{id} [get]
func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	habit, err := h.service.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, habit)
}

// handleUpdate godoc
// @Summary Update a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit id"
// @Param habit body UpdateHabitRequest true "Fields to update"
// @Success 200 {object} Habit
// @Router /habits/{id} [put]
func (h *Handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	habit, err := h.service.Update(r.Context(), uid, chi.URLParam(r, "id"), &req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, habit)
}

// handleDelete godoc
// @Summary Delete a habit and its logs
// @Tags habits
// @Security BearerAuth
// @Param id path string true "Habit id"
// @Success 204 "Deleted"
// @Router /habits/{id} [delete]
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

// handleGetLog godoc
// @Summary Get today's completion state for a habit
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit id"
// @Success 200 {object} LogResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /habits/{id}/log [get]
func (h *Handlers) handleGetLog(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	habit, entry, err := h.service.TodayLog(r.Context(), uid, chi.URLParam(r, "id"), time.Now())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, LogResponse{Habit: habit, TodayEntry: entry})
}

// handleSetLog godoc
// @Summary Mark a habit done or undone for today
// @Description Ensures today's journal entry exists, then upserts the completion row for this habit.
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit id"
// @Param log body SetLogRequest true "Completion state"
// @Success 200 {object} UpsertResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /habits/{id}/log [patch]
func (h *Handlers) handleSetLog(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req SetLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	log, err := h.service.SetTodayLog(r.Context(), uid, chi.URLParam(r, "id"), &req, time.Now())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, UpsertResponse{Success: true, HabitLog: log})
}

// handleStats godoc
// @Summary Streaks and completion rate over the trailing 30 days
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit id"
// @Success 200 {object} StatsResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /habits/{id}/stats [get]
func (h *Handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	habit, habitStats, dailyLogs, err := h.service.Stats(r.Context(), uid, chi.URLParam(r, "id"), time.Now())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, StatsResponse{Habit: habit, Stats: habitStats, DailyLogs: dailyLogs})
}
