package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/lifeos-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// Constraint names from the users table schema, enumerated here so conflict
// handling never string-matches partial identifiers.
const (
	constraintUsersEmail      = "users_email_key"
	constraintUsersExternalID = "users_external_id_key"
)

// Store is the persistence boundary for user records.
type Store interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	AttachExternalID(ctx context.Context, userID int, externalID string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req *UpdateProfileRequest) (*User, error)
}

type pgStore struct {
	db *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed user store.
func NewStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

const userColumns = `id, external_id, email, name, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var externalID sql.NullString
	err := row.Scan(&u.ID, &externalID, &u.Email, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if externalID.Valid {
		u.ExternalID = externalID.String
	}
	return &u, nil
}

func (s *pgStore) GetByID(ctx context.Context, id int) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return u, nil
}

func (s *pgStore) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE external_id = $1`, userColumns)
	u, err := scanUser(s.db.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by external id", err)
	}
	return u, nil
}

func (s *pgStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	u, err := scanUser(s.db.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by email", err)
	}
	return u, nil
}

func (s *pgStore) AttachExternalID(ctx context.Context, userID int, externalID string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET external_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)
	u, err := scanUser(s.db.QueryRow(ctx, query, userID, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to attach external id", err)
	}
	return u, nil
}

func (s *pgStore) Create(ctx context.Context, user *User) (*User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (external_id, email, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, userColumns)
	u, err := scanUser(s.db.QueryRow(ctx, query, user.ExternalID, strings.ToLower(user.Email), user.Name, user.AvatarURL))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch pgErr.ConstraintName {
			case constraintUsersEmail:
				return nil, apperror.NewConflictError("an account with this email already exists", nil)
			case constraintUsersExternalID:
				return nil, apperror.NewConflictError("an account for this identity already exists", nil)
			}
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return u, nil
}

func (s *pgStore) UpdateProfile(ctx context.Context, userID int, req *UpdateProfileRequest) (*User, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *req.Name)
		argID++
	}
	if req.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argID))
		args = append(args, strings.ToLower(*req.Email))
		argID++
	}
	if req.AvatarURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar_url = $%d", argID))
		args = append(args, *req.AvatarURL)
		argID++
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, userID)
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, userID)

	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(setClauses, ", "), argID, userColumns)

	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintUsersEmail {
			return nil, apperror.NewConflictError("an account with this email already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update user profile", err)
	}
	return u, nil
}
