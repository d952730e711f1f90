package pomodoro

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/auth"
	"github.com/user/lifeos-go/validation"
)

// Handlers provides the focus session HTTP endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates session Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the session routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleStart)
	r.Post("/sessions/{id}/complete", h.handleComplete)
	r.Get("/sessions/today", h.handleToday)
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("user not resolved in context", nil))
	}
	return id, ok
}

// handleStart godoc
// @Summary Start a focus session
// @Tags pomodoro
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body StartSessionRequest true "Session"
// @Success 201 {object} Session
// @Failure 403 {object} apperror.ErrorResponse "Attached task belongs to another user"
// @Router /pomodoro/sessions [post]
func (h *Handlers) handleStart(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()
	if err := validation.Struct(&req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	session, err := h.service.Start(r.Context(), uid, &req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, session)
}

// handleComplete godoc
// @Summary Mark a focus session finished
// @Tags pomodoro
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Success 200 {object} Session
// @Failure 409 {object} apperror.ErrorResponse "Session is already completed"
// @Router /pomodoro/sessions/{id}/complete [post]
func (h *Handlers) handleComplete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	session, err := h.service.Complete(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, session)
}

// handleToday godoc
// @Summary List today's focus sessions
// @Tags pomodoro
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Session
// @Router /pomodoro/sessions/today [get]
func (h *Handlers) handleToday(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	sessions, err := h.service.Today(r.Context(), uid)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, sessions)
}
