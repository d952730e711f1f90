package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/lifeos-go/apperror"
)

const pgUniqueViolation = "23505"

// constraintProjectsAuthorName is the partial unique index backing the
// name-unique-among-non-archived invariant.
const constraintProjectsAuthorName = "projects_author_name_active_key"

// Store is the persistence boundary for projects.
type Store interface {
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByAuthor(ctx context.Context, authorID int) ([]Project, error)
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, id string, req *UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, id string) error
}

type pgStore struct {
	db *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed project store.
func NewStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

const projectColumns = `id, author_id, name, description, icon, color, archived, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.AuthorID, &p.Name, &p.Description, &p.Icon, &p.Color, &p.Archived, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgStore) GetByID(ctx context.Context, id string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)
	p, err := scanProject(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("project not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get project", err)
	}
	return p, nil
}

func (s *pgStore) ListByAuthor(ctx context.Context, authorID int) ([]Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE author_id = $1 ORDER BY created_at ASC`, projectColumns)
	rows, err := s.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list projects", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan project", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read projects", err)
	}
	return projects, nil
}

func (s *pgStore) Create(ctx context.Context, project *Project) (*Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO projects (id, author_id, name, description, icon, color, archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, projectColumns)

	p, err := scanProject(s.db.QueryRow(ctx, query,
		project.ID, project.AuthorID, project.Name, project.Description, project.Icon, project.Color, project.Archived))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintProjectsAuthorName {
			return nil, apperror.NewConflictError("an active project with this name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create project", err)
	}
	return p, nil
}

func (s *pgStore) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*Project, error) {
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
	if req.Archived != nil {
		appendSet("archived", *req.Archived)
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE projects SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(setClauses, ", "), argID, projectColumns)

	p, err := scanProject(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("project not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintProjectsAuthorName {
			return nil, apperror.NewConflictError("an active project with this name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update project", err)
	}
	return p, nil
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete project", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("project not found", nil)
	}
	return nil
}
