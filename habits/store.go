package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/stats"
)

const pgUniqueViolation = "23505"

// constraintHabitsAuthorName backs the name-unique-per-user invariant.
const constraintHabitsAuthorName = "habits_author_name_key"

// Store is the persistence boundary for habits and habit logs.
type Store interface {
	GetByID(ctx context.Context, id string) (*Habit, error)
	ListByAuthor(ctx context.Context, authorID int) ([]Habit, error)
	Create(ctx context.Context, habit *Habit) (*Habit, error)
	Update(ctx context.Context, id string, req *UpdateHabitRequest) (*Habit, error)
	Delete(ctx context.Context, id string) error

	GetLog(ctx context.Context, journalID, habitID string) (*HabitLog, error)
	UpsertLog(ctx context.Context, log *HabitLog) (*HabitLog, error)
	ListDailyLogs(ctx context.Context, authorID int, habitID string, from, to time.Time) ([]stats.DailyLog, error)
}

type pgStore struct {
	db *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed habit store.
func NewStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

const habitColumns = `id, author_id, name, description, icon, color, active, created_at, updated_at`

func scanHabit(row pgx.Row) (*Habit, error) {
	var h Habit
	err := row.Scan(&h.ID, &h.AuthorID, &h.Name, &h.Description, &h.Icon, &h.Color, &h.Active, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *pgStore) GetByID(ctx context.Context, id string) (*Habit, error) {
	query := fmt.Sprintf(`SELECT %s FROM habits WHERE id = $1`, habitColumns)
	h, err := scanHabit(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("habit not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get habit", err)
	}
	return h, nil
}

func (s *pgStore) ListByAuthor(ctx context.Context, authorID int) ([]Habit, error) {
	query := fmt.Sprintf(`SELECT %s FROM habits WHERE author_id = $1 ORDER BY created_at ASC`, habitColumns)
	rows, err := s.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list habits", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan habit", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read habits", err)
	}
	return habits, nil
}

func (s *pgStore) Create(ctx context.Context, habit *Habit) (*Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO habits (id, author_id, name, description, icon, color, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, habitColumns)

	h, err := scanHabit(s.db.QueryRow(ctx, query,
		habit.ID, habit.AuthorID, habit.Name, habit.Description, habit.Icon, habit.Color, habit.Active))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintHabitsAuthorName {
			return nil, apperror.NewConflictError("a habit with this name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create habit", err)
	}
	return h, nil
}

func (s *pgStore) Update(ctx context.Context, id string, req *UpdateHabitRequest) (*Habit, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if req.Name != nil {
		appendSet("name", *req.Name)
	}
	if req.Description != nil {
		appendSet("description", *req.Description)
	}
	if req.Icon != nil {
		appendSet("icon", *req.Icon)
	}
	if req.Color != nil {
		appendSet("color", *req.Color)
	}
	if req.Active != nil {
		appendSet("active", *req.Active)
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE habits SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(setClauses, ", "), argID, habitColumns)

	h, err := scanHabit(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("habit not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintHabitsAuthorName {
			return nil, apperror.NewConflictError("a habit with this name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update habit", err)
	}
	return h, nil
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete habit", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("habit not found", nil)
	}
	return nil
}

const habitLogColumns = `id, journal_id, habit_id, completed, notes, created_at, updated_at`

func scanHabitLog(row pgx.Row) (*HabitLog, error) {
	var l HabitLog
	err := row.Scan(&l.ID, &l.JournalID, &l.HabitID, &l.Completed, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *pgStore) GetLog(ctx context.Context, journalID, habitID string) (*HabitLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM habit_logs WHERE journal_id = $1 AND habit_id = $2`, habitLogColumns)
	l, err := scanHabitLog(s.db.QueryRow(ctx, query, journalID, habitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("habit log not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get habit log", err)
	}
	return l, nil
}

// UpsertLog inserts or updates the completion row keyed on the natural
// (journal_id, habit_id) pair in a single statement, so the operation is
// all-or-nothing at the storage layer.
func (s *pgStore) UpsertLog(ctx context.Context, log *HabitLog) (*HabitLog, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO habit_logs (id, journal_id, habit_id, completed, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (journal_id, habit_id)
		DO UPDATE SET completed = EXCLUDED.completed, notes = EXCLUDED.notes, updated_at = now()
		RETURNING %s`, habitLogColumns)

	l, err := scanHabitLog(s.db.QueryRow(ctx, query,
		log.ID, log.JournalID, log.HabitID, log.Completed, log.Notes))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to upsert habit log", err)
	}
	return l, nil
}

// ListDailyLogs returns one row per journal day in [from, to], oldest first.
// Days with a journal entry but no log for this habit come back as not
// completed; days without a journal entry are absent entirely.
func (s *pgStore) ListDailyLogs(ctx context.Context, authorID int, habitID string, from, to time.Time) ([]stats.DailyLog, error) {
	query := `
		SELECT j.date, COALESCE(l.completed, false), COALESCE(l.notes, '')
		FROM journals j
		LEFT JOIN habit_logs l ON l.journal_id = j.id AND l.habit_id = $2
		WHERE j.author_id = $1 AND j.date >= $3::date AND j.date <= $4::date
		ORDER BY j.date ASC`

	rows, err := s.db.Query(ctx, query, authorID, habitID, from, to)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list daily logs", err)
	}
	defer rows.Close()

	var logs []stats.DailyLog
	for rows.Next() {
		var l stats.DailyLog
		if err := rows.Scan(&l.Date, &l.Completed, &l.Notes); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan daily log", err)
		}
		l.DateLabel = l.Date.Format("2006-01-02")
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read daily logs", err)
	}
	return logs, nil
}
