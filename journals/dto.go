package journals

// CreateJournalRequest creates an explicit journal entry. Date defaults to
// the current day in the configured day-boundary timezone when omitted.
type CreateJournalRequest struct {
	Date    *Day   `json:"date"`
	Title   string `json:"title" validate:"omitempty,max=200"`
	Content string `json:"content" validate:"omitempty,max=100000"`
}

// UpdateJournalRequest carries editable journal fields; nil means unchanged.
type UpdateJournalRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content" validate:"omitempty,max=100000"`
}
