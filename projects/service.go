package projects

import (
	"context"
	"time"

	"github.com/user/lifeos-go/ownership"
	"github.com/user/lifeos-go/stats"
	"github.com/user/lifeos-go/tasks"
)

// TaskLister is the slice of the task layer the stats aggregator needs.
type TaskLister interface {
	ListByProject(ctx context.Context, projectID string) ([]tasks.Task, error)
}

// Service contains the project business logic.
type Service struct {
	store Store
	tasks TaskLister
	now   func() time.Time
}

// NewService creates a project Service.
func NewService(store Store, lister TaskLister) *Service {
	return &Service{store: store, tasks: lister, now: time.Now}
}

func (s *Service) getOwned(ctx context.Context, userID int, projectID string) (*Project, error) {
	project, err := s.store.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := ownership.Assert("project", project.AuthorID, userID); err != nil {
		return nil, err
	}
	return project, nil
}

// ProjectAuthor reports who owns a project. The task layer uses it to verify
// assignment without importing this package.
func (s *Service) ProjectAuthor(ctx context.Context, projectID string) (int, error) {
	project, err := s.store.GetByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return project.AuthorID, nil
}

// Create makes a new project for the caller.
func (s *Service) Create(ctx context.Context, userID int, req *CreateProjectRequest) (*Project, error) {
	return s.store.Create(ctx, &Project{
		AuthorID:    userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
}

// List returns the caller's projects.
func (s *Service) List(ctx context.Context, userID int) ([]Project, error) {
	return s.store.ListByAuthor(ctx, userID)
}

// Get returns one project after verifying ownership.
func (s *Service) Get(ctx context.Context, userID int, projectID string) (*Project, error) {
	return s.getOwned(ctx, userID, projectID)
}

// Update edits a project after verifying ownership.
func (s *Service) Update(ctx context.Context, userID int, projectID string, req *UpdateProjectRequest) (*Project, error) {
	if _, err := s.getOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, projectID, req)
}

// Delete removes a project after verifying ownership. Tasks assigned to it
// survive as loose tasks; the schema detaches them on delete.
func (s *Service) Delete(ctx context.Context, userID int, projectID string) error {
	if _, err := s.getOwned(ctx, userID, projectID); err != nil {
		return err
	}
	return s.store.Delete(ctx, projectID)
}

// Stats loads the project with its tasks and derives the aggregate counts in
// one pass over the task list.
func (s *Service) Stats(ctx context.Context, userID int, projectID string) (*StatsResponse, error) {
	project, err := s.getOwned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	projectTasks, err := s.tasks.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if projectTasks == nil {
		projectTasks = []tasks.Task{}
	}

	views := make([]stats.TaskView, len(projectTasks))
	for i, t := range projectTasks {
		views[i] = stats.TaskView{Status: t.Status, Priority: t.Priority, DueDate: t.DueDate}
	}

	return &StatsResponse{
		Project: project,
		Tasks:   projectTasks,
		Stats:   stats.ComputeProjectStats(views, s.now()),
	}, nil
}
