package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/lifeos-go/apperror"
)

// Store is the persistence boundary for tasks.
type Store interface {
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByAuthor(ctx context.Context, authorID int) ([]Task, error)
	ListByProject(ctx context.Context, projectID string) ([]Task, error)
	Create(ctx context.Context, task *Task) (*Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	Delete(ctx context.Context, id string) error
}

type pgStore struct {
	db *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed task store.
func NewStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

const taskColumns = `id, author_id, project_id, title, description, status, priority, due_date, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.AuthorID, &t.ProjectID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *pgStore) GetByID(ctx context.Context, id string) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	t, err := scanTask(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("task not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get task", err)
	}
	return t, nil
}

func (s *pgStore) list(ctx context.Context, query string, arg interface{}) ([]Task, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan task", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read tasks", err)
	}
	return tasks, nil
}

func (s *pgStore) ListByAuthor(ctx context.Context, authorID int) ([]Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE author_id = $1 ORDER BY created_at DESC`, taskColumns)
	return s.list(ctx, query, authorID)
}

func (s *pgStore) ListByProject(ctx context.Context, projectID string) ([]Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE project_id = $1 ORDER BY created_at DESC`, taskColumns)
	return s.list(ctx, query, projectID)
}

func (s *pgStore) Create(ctx context.Context, task *Task) (*Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO tasks (id, author_id, project_id, title, description, status, priority, due_date, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, taskColumns)

	t, err := scanTask(s.db.QueryRow(ctx, query,
		task.ID, task.AuthorID, task.ProjectID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate, task.CompletedAt))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return t, nil
}

// Update writes the full mutable column set; the service owns the merge of
// request fields into the loaded row.
func (s *pgStore) Update(ctx context.Context, task *Task) (*Task, error) {
	columns := []string{"project_id", "title", "description", "status", "priority", "due_date", "completed_at"}
	var setClauses []string
	for i, c := range columns {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", c, i+2))
	}
	query := fmt.Sprintf(`
		UPDATE tasks SET %s, updated_at = now()
		WHERE id = $1
		RETURNING %s`, strings.Join(setClauses, ", "), taskColumns)

	t, err := scanTask(s.db.QueryRow(ctx, query,
		task.ID, task.ProjectID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate, task.CompletedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("task not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update task", err)
	}
	return t, nil
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("task not found", nil)
	}
	return nil
}
