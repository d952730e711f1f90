package habits

import "github.com/user/lifeos-go/stats"

// CreateHabitRequest creates a new habit.
type CreateHabitRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Icon        string `json:"icon" validate:"omitempty,max=64"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateHabitRequest carries editable habit fields; nil means unchanged.
type UpdateHabitRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Icon        *string `json:"icon" validate:"omitempty,max=64"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Active      *bool   `json:"active"`
}

// SetLogRequest marks a habit done or undone for today. Completed is a
// pointer so an absent field is rejected rather than read as false.
type SetLogRequest struct {
	Completed *bool  `json:"completed" validate:"required"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

// LogResponse is the GET /habits/{id}/log payload. TodayEntry is null when
// today has no journal entry yet.
type LogResponse struct {
	Habit      *Habit      `json:"habit"`
	TodayEntry *TodayEntry `json:"todayEntry"`
}

// UpsertResponse is the PATCH /habits/{id}/log payload.
type UpsertResponse struct {
	Success  bool      `json:"success"`
	HabitLog *HabitLog `json:"habitLog"`
}

// StatsResponse is the GET /habits/{id}/stats payload.
type StatsResponse struct {
	Habit     *Habit           `json:"habit"`
	Stats     stats.HabitStats `json:"stats"`
	DailyLogs []stats.DailyLog `json:"dailyLogs"`
}
