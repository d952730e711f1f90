package pomodoro

// StartSessionRequest begins a focus session.
type StartSessionRequest struct {
	TaskID          *string `json:"taskId" validate:"omitempty,uuid"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,min=1,max=240"`
}
