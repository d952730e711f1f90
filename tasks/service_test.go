package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/stats"
)

type fakeStore struct {
	tasks  map[string]*Task
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[string]*Task)}
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, apperror.NewNotFoundError("task not found", nil)
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) ListByAuthor(_ context.Context, authorID int) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.AuthorID == authorID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByProject(_ context.Context, projectID string) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, task *Task) (*Task, error) {
	f.nextID++
	copied := *task
	copied.ID = fmt.Sprintf("task-%d", f.nextID)
	f.tasks[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeStore) Update(_ context.Context, task *Task) (*Task, error) {
	if _, ok := f.tasks[task.ID]; !ok {
		return nil, apperror.NewNotFoundError("task not found", nil)
	}
	copied := *task
	f.tasks[task.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return apperror.NewNotFoundError("task not found", nil)
	}
	delete(f.tasks, id)
	return nil
}

// fakeProjects maps project id to its author.
type fakeProjects map[string]int

func (f fakeProjects) ProjectAuthor(_ context.Context, projectID string) (int, error) {
	authorID, ok := f[projectID]
	if !ok {
		return 0, apperror.NewNotFoundError("project not found", nil)
	}
	return authorID, nil
}

func newTestService(t *testing.T, projects fakeProjects) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewService(store, projects)
	return svc, store
}

func strPtr(s string) *string { return &s }

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t, fakeProjects{})

	task, err := svc.Create(context.Background(), 1, &CreateTaskRequest{Title: "write report"})
	require.NoError(t, err)
	assert.Equal(t, stats.StatusPending, task.Status)
	assert.Equal(t, stats.PriorityMedium, task.Priority)
	assert.Nil(t, task.ProjectID)
	assert.Nil(t, task.CompletedAt)
}

func TestCreateCompletedStampsTimestamp(t *testing.T) {
	svc, _ := newTestService(t, fakeProjects{})
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	task, err := svc.Create(context.Background(), 1, &CreateTaskRequest{Title: "done already", Status: stats.StatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(fixed))
}

func TestCreateRejectsForeignProject(t *testing.T) {
	svc, store := newTestService(t, fakeProjects{"proj-1": 2})

	_, err := svc.Create(context.Background(), 1, &CreateTaskRequest{Title: "sneaky", ProjectID: strPtr("proj-1")})
	assert.True(t, apperror.IsForbidden(err))
	assert.Empty(t, store.tasks)
}

func TestCreateRejectsMissingProject(t *testing.T) {
	svc, _ := newTestService(t, fakeProjects{})

	_, err := svc.Create(context.Background(), 1, &CreateTaskRequest{Title: "orphan", ProjectID: strPtr("no-such")})
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateStatusTransitionsCompletedAt(t *testing.T) {
	svc, _ := newTestService(t, fakeProjects{})
	ctx := context.Background()
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	task, err := svc.Create(ctx, 1, &CreateTaskRequest{Title: "write report"})
	require.NoError(t, err)

	task, err = svc.Update(ctx, 1, task.ID, &UpdateTaskRequest{Status: strPtr(stats.StatusCompleted)})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(fixed))

	task, err = svc.Update(ctx, 1, task.ID, &UpdateTaskRequest{Status: strPtr(stats.StatusInProgress)})
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt, "leaving completed must clear the stamp")
}

func TestUpdateSameStatusKeepsCompletedAt(t *testing.T) {
	svc, _ := newTestService(t, fakeProjects{})
	ctx := context.Background()
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	task, err := svc.Create(ctx, 1, &CreateTaskRequest{Title: "write report", Status: stats.StatusCompleted})
	require.NoError(t, err)

	later := fixed.Add(time.Hour)
	svc.now = func() time.Time { return later }
	task, err = svc.Update(ctx, 1, task.ID, &UpdateTaskRequest{Status: strPtr(stats.StatusCompleted), Title: strPtr("retitled")})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(fixed), "restating completed must not move the stamp")
}

func TestUpdateProjectAssignment(t *testing.T) {
	svc, _ := newTestService(t, fakeProjects{"mine": 1, "theirs": 2})
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, &CreateTaskRequest{Title: "write report"})
	require.NoError(t, err)

	task, err = svc.Update(ctx, 1, task.ID, &UpdateTaskRequest{ProjectID: strPtr("mine")})
	require.NoError(t, err)
	require.NotNil(t, task.ProjectID)
	assert.Equal(t, "mine", *task.ProjectID)

	_, err = svc.Update(ctx, 1, task.ID, &UpdateTaskRequest{ProjectID: strPtr("theirs")})
	assert.True(t, apperror.IsForbidden(err))

	task, err = svc.Update(ctx, 1, task.ID, &UpdateTaskRequest{ClearProject: true})
	require.NoError(t, err)
	assert.Nil(t, task.ProjectID)
}

func TestForeignTaskForbidden(t *testing.T) {
	svc, store := newTestService(t, fakeProjects{})
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, &CreateTaskRequest{Title: "private"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, 2, task.ID)
	assert.True(t, apperror.IsForbidden(err))
	assert.Nil(t, got, "forbidden lookup must not leak the task")

	err = svc.Delete(ctx, 2, task.ID)
	assert.True(t, apperror.IsForbidden(err))
	assert.Len(t, store.tasks, 1)
}
