// Package journals manages daily journal entries. A user has at most one
// journal per calendar day, enforced by a uniqueness constraint on
// (author_id, date) at day granularity. The reconciler here is what makes
// first-of-day habit interactions create the day's journal implicitly.
package journals

import (
	"encoding/json"
	"time"
)

// dayFormat is the wire format for calendar days.
const dayFormat = "2006-01-02"

// Day is a calendar date serialized as YYYY-MM-DD.
type Day struct {
	time.Time
}

// MarshalJSON renders the day as "YYYY-MM-DD".
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dayFormat))
}

// UnmarshalJSON parses "YYYY-MM-DD".
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Journal is a user's entry for one calendar day.
type Journal struct {
	ID        string    `json:"id"`
	AuthorID  int       `json:"authorId"`
	Date      Day       `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
