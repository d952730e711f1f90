package tasks

import "time"

// CreateTaskRequest creates a new task. Status defaults to pending and
// priority to medium when omitted.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"omitempty,max=4000"`
	ProjectID   *string    `json:"projectId" validate:"omitempty,uuid"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest carries editable task fields; nil means unchanged.
// ClearProject detaches the task from its project, and ClearDueDate removes
// the due date, since a nil pointer already means "leave as is".
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=4000"`
	ProjectID    *string    `json:"projectId" validate:"omitempty,uuid"`
	ClearProject bool       `json:"clearProject"`
	Status       *string    `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
}
