package pomodoro

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lifeos-go/apperror"
)

type fakeStore struct {
	sessions map[string]*Session
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*Session)}
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperror.NewNotFoundError("session not found", nil)
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) ListStartedBetween(_ context.Context, authorID int, from, to time.Time) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.AuthorID == authorID && !s.StartedAt.Before(from) && s.StartedAt.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, session *Session) (*Session, error) {
	f.nextID++
	copied := *session
	copied.ID = fmt.Sprintf("session-%d", f.nextID)
	f.sessions[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeStore) MarkCompleted(_ context.Context, id string, completedAt time.Time) (*Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperror.NewNotFoundError("session not found", nil)
	}
	s.Completed = true
	s.CompletedAt = &completedAt
	copied := *s
	return &copied, nil
}

// fakeTasks maps task id to its author.
type fakeTasks map[string]int

func (f fakeTasks) TaskAuthor(_ context.Context, taskID string) (int, error) {
	authorID, ok := f[taskID]
	if !ok {
		return 0, apperror.NewNotFoundError("task not found", nil)
	}
	return authorID, nil
}

func newTestService(t *testing.T, tasks fakeTasks) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewService(store, tasks, time.UTC), store
}

func strPtr(s string) *string { return &s }

func TestStartLooseSession(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})
	fixed := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	session, err := svc.Start(context.Background(), 1, &StartSessionRequest{DurationMinutes: 25})
	require.NoError(t, err)
	assert.Nil(t, session.TaskID)
	assert.Equal(t, 25, session.DurationMinutes)
	assert.True(t, session.StartedAt.Equal(fixed))
	assert.False(t, session.Completed)
}

func TestStartRejectsForeignTask(t *testing.T) {
	svc, store := newTestService(t, fakeTasks{"task-1": 2})

	_, err := svc.Start(context.Background(), 1, &StartSessionRequest{DurationMinutes: 25, TaskID: strPtr("task-1")})
	assert.True(t, apperror.IsForbidden(err))
	assert.Empty(t, store.sessions)
}

func TestStartRejectsMissingTask(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})

	_, err := svc.Start(context.Background(), 1, &StartSessionRequest{DurationMinutes: 25, TaskID: strPtr("no-such")})
	assert.True(t, apperror.IsValidation(err))
}

func TestCompleteOnce(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})
	started := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started }
	ctx := context.Background()

	session, err := svc.Start(ctx, 1, &StartSessionRequest{DurationMinutes: 25})
	require.NoError(t, err)

	finished := started.Add(25 * time.Minute)
	svc.now = func() time.Time { return finished }
	session, err = svc.Complete(ctx, 1, session.ID)
	require.NoError(t, err)
	assert.True(t, session.Completed)
	require.NotNil(t, session.CompletedAt)
	assert.True(t, session.CompletedAt.Equal(finished))

	_, err = svc.Complete(ctx, 1, session.ID)
	assert.True(t, apperror.IsConflict(err), "a retry must not move the completion timestamp")
}

func TestCompleteForeignSessionForbidden(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})
	ctx := context.Background()

	session, err := svc.Start(ctx, 1, &StartSessionRequest{DurationMinutes: 25})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, 2, session.ID)
	assert.True(t, apperror.IsForbidden(err))

	got, err := svc.store.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestTodayWindowFollowsTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	store := newFakeStore()
	svc := NewService(store, fakeTasks{}, tokyo)

	// 22:00 UTC on Aug 29 is already Aug 30 in Tokyo.
	now := time.Date(2026, 8, 29, 22, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	earlier := now.Add(-2 * time.Hour) // Aug 29 in Tokyo, outside the window
	store.sessions["old"] = &Session{ID: "old", AuthorID: 1, StartedAt: earlier, DurationMinutes: 25}
	store.sessions["new"] = &Session{ID: "new", AuthorID: 1, StartedAt: now, DurationMinutes: 25}
	store.sessions["other"] = &Session{ID: "other", AuthorID: 2, StartedAt: now, DurationMinutes: 25}

	sessions, err := svc.Today(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "new", sessions[0].ID)
}

func TestTodayEmpty(t *testing.T) {
	svc, _ := newTestService(t, fakeTasks{})

	sessions, err := svc.Today(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, sessions, "empty day must serialize as [] not null")
	assert.Empty(t, sessions)
}
