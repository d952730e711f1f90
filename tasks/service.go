package tasks

import (
	"context"
	"time"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/ownership"
	"github.com/user/lifeos-go/stats"
)

// ProjectResolver answers who owns a project, so task assignment can be
// verified without this package depending on the project layer.
type ProjectResolver interface {
	ProjectAuthor(ctx context.Context, projectID string) (int, error)
}

// Service contains the task business logic.
type Service struct {
	store    Store
	projects ProjectResolver
	now      func() time.Time
}

// NewService creates a task Service.
func NewService(store Store, projects ProjectResolver) *Service {
	return &Service{store: store, projects: projects, now: time.Now}
}

func (s *Service) getOwned(ctx context.Context, userID int, taskID string) (*Task, error) {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := ownership.Assert("task", task.AuthorID, userID); err != nil {
		return nil, err
	}
	return task, nil
}

// assertProjectOwned rejects assignment to a project the caller does not own.
// A missing project surfaces as a validation error rather than a bare 404, so
// the caller knows which field is wrong.
func (s *Service) assertProjectOwned(ctx context.Context, userID int, projectID string) error {
	authorID, err := s.projects.ProjectAuthor(ctx, projectID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidationError("validation failed", map[string]string{
				"projectId": "project does not exist",
			})
		}
		return err
	}
	return ownership.Assert("project", authorID, userID)
}

// TaskAuthor reports who owns a task. The pomodoro layer uses it to verify
// attachment without importing this package.
func (s *Service) TaskAuthor(ctx context.Context, taskID string) (int, error) {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return 0, err
	}
	return task.AuthorID, nil
}

// Create makes a new task for the caller, verifying project ownership when
// the task is assigned to one.
func (s *Service) Create(ctx context.Context, userID int, req *CreateTaskRequest) (*Task, error) {
	if req.ProjectID != nil {
		if err := s.assertProjectOwned(ctx, userID, *req.ProjectID); err != nil {
			return nil, err
		}
	}

	task := &Task{
		AuthorID:    userID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if task.Status == "" {
		task.Status = stats.StatusPending
	}
	if task.Priority == "" {
		task.Priority = stats.PriorityMedium
	}
	if task.Status == stats.StatusCompleted {
		now := s.now()
		task.CompletedAt = &now
	}
	return s.store.Create(ctx, task)
}

// List returns the caller's tasks, newest first.
func (s *Service) List(ctx context.Context, userID int) ([]Task, error) {
	return s.store.ListByAuthor(ctx, userID)
}

// Get returns one task after verifying ownership.
func (s *Service) Get(ctx context.Context, userID int, taskID string) (*Task, error) {
	return s.getOwned(ctx, userID, taskID)
}

// Update edits a task. The completion timestamp tracks the status: it is set
// when the status enters completed and cleared when it leaves.
func (s *Service) Update(ctx context.Context, userID int, taskID string, req *UpdateTaskRequest) (*Task, error) {
	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.ClearProject {
		task.ProjectID = nil
	} else if req.ProjectID != nil {
		if err := s.assertProjectOwned(ctx, userID, *req.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = req.ProjectID
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.ClearDueDate {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Status != nil && *req.Status != task.Status {
		wasCompleted := task.Status == stats.StatusCompleted
		task.Status = *req.Status
		if task.Status == stats.StatusCompleted {
			now := s.now()
			task.CompletedAt = &now
		} else if wasCompleted {
			task.CompletedAt = nil
		}
	}

	return s.store.Update(ctx, task)
}

// Delete removes a task after verifying ownership.
func (s *Service) Delete(ctx context.Context, userID int, taskID string) error {
	if _, err := s.getOwned(ctx, userID, taskID); err != nil {
		return err
	}
	return s.store.Delete(ctx, taskID)
}
