package journals

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
)

const pgUniqueViolation = "23505"

// constraintJournalsAuthorDate is the uniqueness constraint backing the
// one-journal-per-day invariant.
const constraintJournalsAuthorDate = "journals_author_date_key"

// Store is the persistence boundary for journal entries.
type Store interface {
	GetByID(ctx context.Context, id string) (*Journal, error)
	GetByAuthorAndDate(ctx context.Context, authorID int, day time.Time) (*Journal, error)
	ListByAuthor(ctx context.Context, authorID int, limit int) ([]Journal, error)
	Create(ctx context.Context, journal *Journal) (*Journal, error)
	Update(ctx context.Context, id string, req *UpdateJournalRequest) (*Journal, error)
	Delete(ctx context.Context, id string) error
}

type pgStore struct {
	db *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed journal store.
func NewStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

const journalColumns = `id, author_id, date, title, content, created_at, updated_at`

func scanJournal(row pgx.Row) (*Journal, error) {
	var j Journal
	var date time.Time
	err := row.Scan(&j.ID, &j.AuthorID, &date, &j.Title, &j.Content, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Date = Day{date}
	return &j, nil
}

func (s *pgStore) GetByID(ctx context.Context, id string) (*Journal, error) {
	query := fmt.Sprintf(`SELECT %s FROM journals WHERE id = $1`, journalColumns)
	j, err := scanJournal(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("journal entry not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get journal entry", err)
	}
	return j, nil
}

func (s *pgStore) GetByAuthorAndDate(ctx context.Context, authorID int, day time.Time) (*Journal, error) {
	query := fmt.Sprintf(`SELECT %s FROM journals WHERE author_id = $1 AND date = $2::date`, journalColumns)
	j, err := scanJournal(s.db.QueryRow(ctx, query, authorID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("journal entry not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get journal entry by date", err)
	}
	return j, nil
}

func (s *pgStore) ListByAuthor(ctx context.Context, authorID int, limit int) ([]Journal, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM journals
		WHERE author_id = $1
		ORDER BY date DESC
		LIMIT $2`, journalColumns)

	rows, err := s.db.Query(ctx, query, authorID, limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list journal entries", err)
	}
	defer rows.Close()

	var journals []Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan journal entry", err)
		}
		journals = append(journals, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read journal entries", err)
	}
	return journals, nil
}

func (s *pgStore) Create(ctx context.Context, journal *Journal) (*Journal, error) {
	if journal.ID == "" {
		journal.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO journals (id, author_id, date, title, content)
		VALUES ($1, $2, $3::date, $4, $5)
		RETURNING %s`, journalColumns)

	j, err := scanJournal(s.db.QueryRow(ctx, query,
		journal.ID, journal.AuthorID, journal.Date.Time, journal.Title, journal.Content))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintJournalsAuthorDate {
			return nil, apperror.NewConflictError("a journal entry for this day already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create journal entry", err)
	}
	return j, nil
}

func (s *pgStore) Update(ctx context.Context, id string, req *UpdateJournalRequest) (*Journal, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if req.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *req.Title)
		argID++
	}
	if req.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argID))
		args = append(args, *req.Content)
		argID++
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE journals SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(setClauses, ", "), argID, journalColumns)

	j, err := scanJournal(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("journal entry not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update journal entry", err)
	}
	return j, nil
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM journals WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete journal entry", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("journal entry not found", nil)
	}
	return nil
}
