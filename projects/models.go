// Package projects manages projects and their aggregate task statistics.
package projects

import "time"

// Project groups tasks. Name is unique per user among non-archived projects;
// archiving a project frees its name for reuse.
type Project struct {
	ID          string    `json:"id"`
	AuthorID    int       `json:"authorId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
