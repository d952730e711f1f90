// Package habits manages habits and their daily completion logs. Marking a
// habit done or undone for today is an upsert keyed on the (journal, habit)
// pair, creating the day's journal on first interaction.
package habits

import "time"

// Habit is a user-owned recurring practice. Name is unique per user.
type Habit struct {
	ID          string    `json:"id"`
	AuthorID    int       `json:"authorId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HabitLog records a habit's completion state for one journal entry (one
// day). At most one log exists per (journal, habit) pair; logs are removed
// with their parent journal.
type HabitLog struct {
	ID        string    `json:"id"`
	JournalID string    `json:"journalId"`
	HabitID   string    `json:"habitId"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodayEntry describes today's journal entry relative to one habit. ID is
// the journal entry's id.
type TodayEntry struct {
	ID          string `json:"id"`
	HasHabitLog bool   `json:"hasHabitLog"`
	Completed   bool   `json:"completed"`
}
