package habits

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/journals"
	"github.com/user/lifeos-go/ownership"
	"github.com/user/lifeos-go/stats"
)

// statsWindowDays is the trailing window for habit statistics.
const statsWindowDays = 30

// JournalReconciler is the slice of the journal service the habit flow
// needs: finding today's journal and creating it on first interaction.
type JournalReconciler interface {
	EnsureToday(ctx context.Context, userID int, now time.Time) (*journals.Journal, error)
	Today(ctx context.Context, userID int, now time.Time) (*journals.Journal, error)
	DayOf(now time.Time) time.Time
}

// Service contains the habit business logic.
type Service struct {
	store    Store
	journals JournalReconciler
}

// NewService creates a habit Service.
func NewService(store Store, reconciler JournalReconciler) *Service {
	return &Service{store: store, journals: reconciler}
}

// getOwned fetches a habit and verifies the caller owns it. Every habit
// operation goes through this before disclosing or mutating anything.
func (s *Service) getOwned(ctx context.Context, userID int, habitID string) (*Habit, error) {
	habit, err := s.store.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if err := ownership.Assert("habit", habit.AuthorID, userID); err != nil {
		return nil, err
	}
	return habit, nil
}

// Create makes a new habit for the caller. Active defaults to true.
func (s *Service) Create(ctx context.Context, userID int, req *CreateHabitRequest) (*Habit, error) {
	return s.store.Create(ctx, &Habit{
		AuthorID:    userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Active:      true,
	})
}

// List returns the caller's habits.
func (s *Service) List(ctx context.Context, userID int) ([]Habit, error) {
	return s.store.ListByAuthor(ctx, userID)
}

// Get returns one habit after verifying ownership.
func (s *Service) Get(ctx context.Context, userID int, habitID string) (*Habit, error) {
	return s.getOwned(ctx, userID, habitID)
}

// Update edits a habit after verifying ownership.
func (s *Service) Update(ctx context.Context, userID int, habitID string, req *UpdateHabitRequest) (*Habit, error) {
	if _, err := s.getOwned(ctx, userID, habitID); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, habitID, req)
}

// Delete removes a habit and its logs after verifying ownership.
func (s *Service) Delete(ctx context.Context, userID int, habitID string) error {
	if _, err := s.getOwned(ctx, userID, habitID); err != nil {
		return err
	}
	return s.store.Delete(ctx, habitID)
}

// TodayLog reports the habit's completion state for the current day.
// The entry is nil when today has no journal yet; a journal without a log
// for this habit reports hasHabitLog=false.
func (s *Service) TodayLog(ctx context.Context, userID int, habitID string, now time.Time) (*Habit, *TodayEntry, error) {
	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, nil, err
	}

	journal, err := s.journals.Today(ctx, userID, now)
	if err != nil {
		if apperror.IsNotFound(err) {
			return habit, nil, nil
		}
		return nil, nil, err
	}

	entry := &TodayEntry{ID: journal.ID}
	log, err := s.store.GetLog(ctx, journal.ID, habit.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return habit, entry, nil
		}
		return nil, nil, err
	}
	entry.HasHabitLog = true
	entry.Completed = log.Completed
	return habit, entry, nil
}

// SetTodayLog marks the habit done or undone for the current day. It ensures
// today's journal exists, then upserts the completion row keyed on the
// (journal, habit) pair. Calling it twice with the same arguments yields the
// same observable row.
func (s *Service) SetTodayLog(ctx context.Context, userID int, habitID string, req *SetLogRequest, now time.Time) (*HabitLog, error) {
	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	journal, err := s.journals.EnsureToday(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	log, err := s.store.UpsertLog(ctx, &HabitLog{
		JournalID: journal.ID,
		HabitID:   habit.ID,
		Completed: *req.Completed,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("habit log upserted",
		"user_id", userID,
		"habit_id", habit.ID,
		"journal_id", journal.ID,
		"completed", log.Completed,
	)
	return log, nil
}

// Stats computes streaks and completion rate over the trailing 30-day
// window. Only days with a journal entry enter the window; the engine never
// re-sorts, so the store's date-ascending order is load-bearing.
func (s *Service) Stats(ctx context.Context, userID int, habitID string, now time.Time) (*Habit, stats.HabitStats, []stats.DailyLog, error) {
	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, stats.HabitStats{}, nil, err
	}

	to := s.journals.DayOf(now)
	from := to.AddDate(0, 0, -(statsWindowDays - 1))
	logs, err := s.store.ListDailyLogs(ctx, userID, habit.ID, from, to)
	if err != nil {
		return nil, stats.HabitStats{}, nil, err
	}
	if logs == nil {
		logs = []stats.DailyLog{}
	}
	return habit, stats.ComputeHabitStats(logs), logs, nil
}
