package pomodoro

import (
	"context"
	"time"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/ownership"
)

// TaskResolver answers who owns a task, so sessions can be attached to one
// without this package depending on the task layer.
type TaskResolver interface {
	TaskAuthor(ctx context.Context, taskID string) (int, error)
}

// Service contains the focus session business logic.
type Service struct {
	store Store
	tasks TaskResolver
	loc   *time.Location
	now   func() time.Time
}

// NewService creates a session Service. loc decides where one day ends and
// the next begins for the today listing.
func NewService(store Store, tasks TaskResolver, loc *time.Location) *Service {
	return &Service{store: store, tasks: tasks, loc: loc, now: time.Now}
}

func (s *Service) getOwned(ctx context.Context, userID int, sessionID string) (*Session, error) {
	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ownership.Assert("session", session.AuthorID, userID); err != nil {
		return nil, err
	}
	return session, nil
}

// Start begins a focus session, verifying task ownership when the session is
// attached to one.
func (s *Service) Start(ctx context.Context, userID int, req *StartSessionRequest) (*Session, error) {
	if req.TaskID != nil {
		authorID, err := s.tasks.TaskAuthor(ctx, *req.TaskID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewValidationError("validation failed", map[string]string{
					"taskId": "task does not exist",
				})
			}
			return nil, err
		}
		if err := ownership.Assert("task", authorID, userID); err != nil {
			return nil, err
		}
	}

	return s.store.Create(ctx, &Session{
		AuthorID:        userID,
		TaskID:          req.TaskID,
		StartedAt:       s.now(),
		DurationMinutes: req.DurationMinutes,
	})
}

// Complete marks a session finished. Completing twice is a conflict, so a
// stale client retry cannot move the completion timestamp.
func (s *Service) Complete(ctx context.Context, userID int, sessionID string) (*Session, error) {
	session, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, apperror.NewConflictError("session is already completed", nil)
	}
	return s.store.MarkCompleted(ctx, session.ID, s.now())
}

// Today lists the caller's sessions started during the current day in the
// configured timezone, oldest first.
func (s *Service) Today(ctx context.Context, userID int) ([]Session, error) {
	local := s.now().In(s.loc)
	y, m, d := local.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)

	sessions, err := s.store.ListStartedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}
