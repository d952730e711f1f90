package projects

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/stats"
	"github.com/user/lifeos-go/tasks"
)

type fakeStore struct {
	projects map[string]*Project
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: make(map[string]*Project)}
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperror.NewNotFoundError("project not found", nil)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) ListByAuthor(_ context.Context, authorID int) ([]Project, error) {
	var out []Project
	for _, p := range f.projects {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, project *Project) (*Project, error) {
	for _, p := range f.projects {
		if p.AuthorID == project.AuthorID && p.Name == project.Name && !p.Archived {
			return nil, apperror.NewConflictError("an active project with this name already exists", nil)
		}
	}
	f.nextID++
	copied := *project
	copied.ID = fmt.Sprintf("project-%d", f.nextID)
	f.projects[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeStore) Update(_ context.Context, id string, req *UpdateProjectRequest) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperror.NewNotFoundError("project not found", nil)
	}
	if req.Name != nil {
		for _, other := range f.projects {
			if other.ID != id && other.AuthorID == p.AuthorID && other.Name == *req.Name && !other.Archived {
				return nil, apperror.NewConflictError("an active project with this name already exists", nil)
			}
		}
		p.Name = *req.Name
	}
	if req.Archived != nil {
		p.Archived = *req.Archived
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return apperror.NewNotFoundError("project not found", nil)
	}
	delete(f.projects, id)
	return nil
}

// fakeTasks maps project id to its assigned tasks.
type fakeTasks map[string][]tasks.Task

func (f fakeTasks) ListByProject(_ context.Context, projectID string) ([]tasks.Task, error) {
	return f[projectID], nil
}

func newTestService(t *testing.T, lister fakeTasks) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewService(store, lister), store
}

func TestCreateDuplicateActiveNameConflicts(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &CreateProjectRequest{Name: "thesis"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, &CreateProjectRequest{Name: "thesis"})
	assert.True(t, apperror.IsConflict(err))

	// Archiving the first frees the name.
	archived := true
	_, err = svc.Update(ctx, 1, first.ID, &UpdateProjectRequest{Archived: &archived})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, &CreateProjectRequest{Name: "thesis"})
	assert.NoError(t, err)
}

func TestGetForeignProjectForbidden(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})
	ctx := context.Background()

	project, err := svc.Create(ctx, 1, &CreateProjectRequest{Name: "thesis"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, 2, project.ID)
	assert.True(t, apperror.IsForbidden(err))
	assert.Nil(t, got, "forbidden lookup must not leak the project")
}

func TestStatsAggregatesTasks(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	lister := fakeTasks{}
	svc, _ := newTestService(t, lister)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	project, err := svc.Create(ctx, 1, &CreateProjectRequest{Name: "thesis"})
	require.NoError(t, err)

	lister[project.ID] = []tasks.Task{
		{Status: stats.StatusPending, Priority: stats.PriorityHigh, DueDate: &due},
		{Status: stats.StatusPending, Priority: stats.PriorityLow, DueDate: &past},
		{Status: stats.StatusCompleted, Priority: stats.PriorityMedium},
		{Status: stats.StatusInProgress, Priority: stats.PriorityMedium},
	}

	resp, err := svc.Stats(ctx, 1, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, resp.Project.ID)
	assert.Len(t, resp.Tasks, 4)
	assert.Equal(t, 4, resp.Stats.TotalTasks)
	assert.Equal(t, 1, resp.Stats.CompletedTasks)
	assert.Equal(t, 25, resp.Stats.ProgressPercentage)
	assert.Equal(t, 2, resp.Stats.TaskStatusCount.Pending)
	assert.Equal(t, 1, resp.Stats.TaskStatusCount.InProgress)
	assert.Equal(t, 1, resp.Stats.TaskStatusCount.Completed)
	assert.Equal(t, 1, resp.Stats.UpcomingTasks, "only future-due, unfinished tasks are upcoming")
}

func TestStatsEmptyProject(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})
	ctx := context.Background()

	project, err := svc.Create(ctx, 1, &CreateProjectRequest{Name: "thesis"})
	require.NoError(t, err)

	resp, err := svc.Stats(ctx, 1, project.ID)
	require.NoError(t, err)
	assert.NotNil(t, resp.Tasks, "empty task list must serialize as [] not null")
	assert.Zero(t, resp.Stats.TotalTasks)
	assert.Zero(t, resp.Stats.ProgressPercentage)
}

func TestProjectAuthor(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})
	ctx := context.Background()

	project, err := svc.Create(ctx, 7, &CreateProjectRequest{Name: "thesis"})
	require.NoError(t, err)

	authorID, err := svc.ProjectAuthor(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, authorID)

	_, err = svc.ProjectAuthor(ctx, "no-such")
	assert.True(t, apperror.IsNotFound(err))
}
