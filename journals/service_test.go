package journals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lifeos-go/apperror"
)

// fakeStore is an in-memory Store enforcing the (author, date) uniqueness
// constraint the way the database does.
type fakeStore struct {
	journals map[string]*Journal
	nextID   int
	creates  int

	// raceOnCreate simulates a concurrent first-of-day insert: the next
	// Create sees the row appear just before it runs.
	raceOnCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{journals: make(map[string]*Journal), nextID: 1}
}

func (f *fakeStore) findByDate(authorID int, day time.Time) *Journal {
	for _, j := range f.journals {
		if j.AuthorID == authorID && j.Date.Equal(day) {
			return j
		}
	}
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Journal, error) {
	if j, ok := f.journals[id]; ok {
		copy := *j
		return &copy, nil
	}
	return nil, apperror.NewNotFoundError("journal entry not found", nil)
}

func (f *fakeStore) GetByAuthorAndDate(_ context.Context, authorID int, day time.Time) (*Journal, error) {
	if j := f.findByDate(authorID, day); j != nil {
		copy := *j
		return &copy, nil
	}
	return nil, apperror.NewNotFoundError("journal entry not found", nil)
}

func (f *fakeStore) ListByAuthor(_ context.Context, authorID int, _ int) ([]Journal, error) {
	var out []Journal
	for _, j := range f.journals {
		if j.AuthorID == authorID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeStore) insert(j Journal) *Journal {
	j.ID = fmt.Sprintf("journal-%d", f.nextID)
	f.nextID++
	f.journals[j.ID] = &j
	return f.journals[j.ID]
}

func (f *fakeStore) Create(_ context.Context, journal *Journal) (*Journal, error) {
	if f.raceOnCreate {
		f.raceOnCreate = false
		f.insert(Journal{AuthorID: journal.AuthorID, Date: journal.Date, Title: "raced in first"})
	}
	if f.findByDate(journal.AuthorID, journal.Date.Time) != nil {
		return nil, apperror.NewConflictError("a journal entry for this day already exists", nil)
	}
	f.creates++
	created := f.insert(*journal)
	copy := *created
	return &copy, nil
}

func (f *fakeStore) Update(_ context.Context, id string, req *UpdateJournalRequest) (*Journal, error) {
	j, ok := f.journals[id]
	if !ok {
		return nil, apperror.NewNotFoundError("journal entry not found", nil)
	}
	if req.Title != nil {
		j.Title = *req.Title
	}
	if req.Content != nil {
		j.Content = *req.Content
	}
	copy := *j
	return &copy, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.journals[id]; !ok {
		return apperror.NewNotFoundError("journal entry not found", nil)
	}
	delete(f.journals, id)
	return nil
}

func TestEnsureTodayCreatesThenReuses(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, time.UTC)
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)

	first, err := svc.EnsureToday(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, "Saturday, August 29, 2026", first.Title)

	// Later the same day: same journal, no second create.
	second, err := svc.EnsureToday(context.Background(), 1, now.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates)
}

func TestEnsureTodayNewDayNewJournal(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, time.UTC)

	day1, err := svc.EnsureToday(context.Background(), 1, time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	day2, err := svc.EnsureToday(context.Background(), 1, time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEqual(t, day1.ID, day2.ID)
	assert.Equal(t, 2, store.creates)
}

func TestEnsureTodayUsesConfiguredTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	store := newFakeStore()
	svc := NewService(store, tokyo)

	// 2026-08-29 22:00 UTC is already 2026-08-30 in Tokyo.
	j, err := svc.EnsureToday(context.Background(), 1, time.Date(2026, 8, 29, 22, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", j.Date.Format("2006-01-02"))
}

func TestEnsureTodayLosingInsertRaceRefetches(t *testing.T) {
	store := newFakeStore()
	store.raceOnCreate = true
	svc := NewService(store, time.UTC)

	j, err := svc.EnsureToday(context.Background(), 1, time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "raced in first", j.Title, "must return the concurrently inserted row")
	assert.Equal(t, 0, store.creates, "the losing insert must not duplicate")
	assert.Len(t, store.journals, 1)
}

func TestJournalOwnershipGuard(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, time.UTC)
	owned := store.insert(Journal{AuthorID: 1, Date: Day{time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)}, Content: "private"})

	_, err := svc.Get(context.Background(), 2, owned.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	err = svc.Delete(context.Background(), 2, owned.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Len(t, store.journals, 1, "forbidden delete must not mutate")
}

func TestExplicitCreateDuplicateDayConflicts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, time.UTC)
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), 1, &CreateJournalRequest{Title: "first"}, now)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 1, &CreateJournalRequest{Title: "second"}, now)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}
