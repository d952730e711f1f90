// Package tasks manages tasks, optionally grouped under a project. A task's
// completion timestamp follows its status: set when the status becomes
// completed, cleared when it leaves completed.
package tasks

import "time"

// Task is a user-owned unit of work. ProjectID is nil for loose tasks.
type Task struct {
	ID          string     `json:"id"`
	AuthorID    int        `json:"authorId"`
	ProjectID   *string    `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
