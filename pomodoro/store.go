package pomodoro

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/lifeos-go/apperror"
)

// Store is the persistence boundary for focus sessions.
type Store interface {
	GetByID(ctx context.Context, id string) (*Session, error)
	ListStartedBetween(ctx context.Context, authorID int, from, to time.Time) ([]Session, error)
	Create(ctx context.Context, session *Session) (*Session, error)
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) (*Session, error)
}

type pgStore struct {
	db *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed session store.
func NewStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

const sessionColumns = `id, author_id, task_id, started_at, duration_minutes, completed, completed_at, created_at`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.AuthorID, &s.TaskID, &s.StartedAt, &s.DurationMinutes,
		&s.Completed, &s.CompletedAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *pgStore) GetByID(ctx context.Context, id string) (*Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM pomodoro_sessions WHERE id = $1`, sessionColumns)
	sess, err := scanSession(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("session not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get session", err)
	}
	return sess, nil
}

func (s *pgStore) ListStartedBetween(ctx context.Context, authorID int, from, to time.Time) ([]Session, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pomodoro_sessions
		WHERE author_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at ASC`, sessionColumns)

	rows, err := s.db.Query(ctx, query, authorID, from, to)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan session", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read sessions", err)
	}
	return sessions, nil
}

func (s *pgStore) Create(ctx context.Context, session *Session) (*Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO pomodoro_sessions (id, author_id, task_id, started_at, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, sessionColumns)

	sess, err := scanSession(s.db.QueryRow(ctx, query,
		session.ID, session.AuthorID, session.TaskID, session.StartedAt, session.DurationMinutes))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create session", err)
	}
	return sess, nil
}

func (s *pgStore) MarkCompleted(ctx context.Context, id string, completedAt time.Time) (*Session, error) {
	query := fmt.Sprintf(`
		UPDATE pomodoro_sessions
		SET completed = true, completed_at = $2
		WHERE id = $1
		RETURNING %s`, sessionColumns)

	sess, err := scanSession(s.db.QueryRow(ctx, query, id, completedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("session not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to complete session", err)
	}
	return sess, nil
}
