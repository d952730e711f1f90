// Package pomodoro records focus sessions, optionally attached to a task.
package pomodoro

import "time"

// Session is one focus interval. Completed flips once when the timer runs
// out; abandoned sessions simply stay incomplete.
type Session struct {
	ID              string     `json:"id"`
	AuthorID        int        `json:"authorId"`
	TaskID          *string    `json:"taskId"`
	StartedAt       time.Time  `json:"startedAt"`
	DurationMinutes int        `json:"durationMinutes"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}
