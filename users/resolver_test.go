package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/auth"
)

// fakeStore is an in-memory Store for resolver tests.
type fakeStore struct {
	users  map[int]*User
	nextID int
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[int]*User), nextID: 1}
}

func (f *fakeStore) add(u User) *User {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = &u
	return f.users[u.ID]
}

func (f *fakeStore) GetByID(_ context.Context, id int) (*User, error) {
	if u, ok := f.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, apperror.NewNotFoundError("user not found", nil)
}

func (f *fakeStore) GetByExternalID(_ context.Context, externalID string) (*User, error) {
	for _, u := range f.users {
		if u.ExternalID == externalID && externalID != "" {
			copy := *u
			return &copy, nil
		}
	}
	return nil, apperror.NewNotFoundError("user not found", nil)
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, apperror.NewNotFoundError("user not found", nil)
}

func (f *fakeStore) AttachExternalID(_ context.Context, userID int, externalID string) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	f.writes++
	u.ExternalID = externalID
	copy := *u
	return &copy, nil
}

func (f *fakeStore) Create(_ context.Context, user *User) (*User, error) {
	f.writes++
	created := f.add(*user)
	copy := *created
	return &copy, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID int, _ *UpdateProfileRequest) (*User, error) {
	return f.GetByID(context.Background(), userID)
}

func TestResolveExistingExternalID(t *testing.T) {
	store := newFakeStore()
	existing := store.add(User{ExternalID: "idp|abc", Email: "ada@example.com"})
	resolver := NewResolver(store)

	user, err := resolver.Resolve(context.Background(), &auth.Principal{
		ExternalID: "idp|abc",
		Email:      "other@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Zero(t, store.writes, "known principals must not trigger writes")
}

func TestResolveReconcilesByEmail(t *testing.T) {
	store := newFakeStore()
	existing := store.add(User{Email: "ada@example.com", Name: "Ada"})
	resolver := NewResolver(store)

	user, err := resolver.Resolve(context.Background(), &auth.Principal{
		ExternalID: "idp|new",
		Email:      "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "idp|new", user.ExternalID)
	assert.Equal(t, 1, store.writes, "reconciliation is exactly one write")
}

func TestResolveCreatesOnFirstSight(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	user, err := resolver.Resolve(context.Background(), &auth.Principal{
		ExternalID: "idp|fresh",
		Email:      "grace@example.com",
		Name:       "Grace",
		AvatarURL:  "https://cdn.example.com/g.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "idp|fresh", user.ExternalID)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.Equal(t, 1, store.writes)

	// A second request with the same principal resolves without writing.
	again, err := resolver.Resolve(context.Background(), &auth.Principal{
		ExternalID: "idp|fresh",
		Email:      "grace@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, 1, store.writes)
}

func TestResolveMissingEmailIsFatal(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), &auth.Principal{ExternalID: "idp|noemail"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, store.writes)
}
