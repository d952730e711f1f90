package projects

import (
	"github.com/user/lifeos-go/stats"
	"github.com/user/lifeos-go/tasks"
)

// CreateProjectRequest creates a new project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Icon        string `json:"icon" validate:"omitempty,max=64"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateProjectRequest carries editable project fields; nil means unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Icon        *string `json:"icon" validate:"omitempty,max=64"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Archived    *bool   `json:"archived"`
}

// StatsResponse is the GET /projects/{id}/stats payload.
type StatsResponse struct {
	Project *Project           `json:"project"`
	Tasks   []tasks.Task       `json:"tasks"`
	Stats   stats.ProjectStats `json:"stats"`
}
