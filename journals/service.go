package journals

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/ownership"
)

// Service contains the journal business logic, including the daily
// reconciler that guarantees at most one entry per user per calendar day.
type Service struct {
	store Store
	loc   *time.Location
}

// NewService creates a journal Service. loc is the day-boundary timezone.
func NewService(store Store, loc *time.Location) *Service {
	return &Service{store: store, loc: loc}
}

// DayOf truncates now to the calendar day in the configured timezone.
func (s *Service) DayOf(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// defaultTitle derives the implicit journal title from its date.
func defaultTitle(day time.Time) string {
	return day.Format("Monday, January 2, 2006")
}

// EnsureToday finds or creates the journal entry for the current day.
// Idempotent within a day. A concurrent first-of-day insert losing the race
// hits the (author_id, date) uniqueness constraint; that conflict is treated
// as "the journal already exists, re-fetch", never as a failure.
func (s *Service) EnsureToday(ctx context.Context, userID int, now time.Time) (*Journal, error) {
	day := s.DayOf(now)

	journal, err := s.store.GetByAuthorAndDate(ctx, userID, day)
	if err == nil {
		return journal, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	journal, err = s.store.Create(ctx, &Journal{
		AuthorID: userID,
		Date:     Day{day},
		Title:    defaultTitle(day),
	})
	if err != nil {
		if apperror.IsConflict(err) {
			slog.Debug("lost first-of-day journal race, re-fetching", "user_id", userID)
			return s.store.GetByAuthorAndDate(ctx, userID, day)
		}
		return nil, err
	}
	return journal, nil
}

// Today returns the current day's journal entry without creating one.
// NotFound when the user has not journaled or logged anything today.
func (s *Service) Today(ctx context.Context, userID int, now time.Time) (*Journal, error) {
	return s.store.GetByAuthorAndDate(ctx, userID, s.DayOf(now))
}

// Get returns a journal entry after verifying ownership.
func (s *Service) Get(ctx context.Context, userID int, id string) (*Journal, error) {
	journal, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownership.Assert("journal entry", journal.AuthorID, userID); err != nil {
		return nil, err
	}
	return journal, nil
}

// List returns the caller's journal entries, newest first.
func (s *Service) List(ctx context.Context, userID int, limit int) ([]Journal, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.store.ListByAuthor(ctx, userID, limit)
}

// Create makes an explicit journal entry. Date defaults to the current day;
// a duplicate day surfaces as a conflict.
func (s *Service) Create(ctx context.Context, userID int, req *CreateJournalRequest, now time.Time) (*Journal, error) {
	day := s.DayOf(now)
	if req.Date != nil {
		// An explicit date is already a calendar day; normalize without a
		// timezone shift.
		y, m, d := req.Date.Date()
		day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	title := req.Title
	if title == "" {
		title = defaultTitle(day)
	}
	return s.store.Create(ctx, &Journal{
		AuthorID: userID,
		Date:     Day{day},
		Title:    title,
		Content:  req.Content,
	})
}

// Update edits a journal entry after verifying ownership.
func (s *Service) Update(ctx context.Context, userID int, id string, req *UpdateJournalRequest) (*Journal, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, req)
}

// Delete removes a journal entry after verifying ownership. Habit logs tied
// to the entry go with it (cascade).
func (s *Service) Delete(ctx context.Context, userID int, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
