package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stroymarket/db"
	"stroymarket/internal/seed"
)

// MockStore реализует seed.Store
type MockStore struct {
	options []db.DeliveryOption
	users   map[string]*db.User

	createdOptions []string
	createdUsers   []string
}

func newMockStore() *MockStore {
	return &MockStore{users: map[string]*db.User{}}
}

func (m *MockStore) GetDeliveryOptionByName(ctx context.Context, name string) (*db.DeliveryOption, error) {
	for i := range m.options {
		if m.options[i].Name == name {
			return &m.options[i], nil
		}
	}
	return nil, nil
}

func (m *MockStore) CreateDeliveryOption(ctx context.Context, o *db.DeliveryOption) (*db.DeliveryOption, error) {
	created := *o
	created.ID = len(m.options) + 1
	created.IsActive = true
	m.options = append(m.options, created)
	m.createdOptions = append(m.createdOptions, o.Name)
	return &created, nil
}

func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*db.User, error) {
	return m.users[username], nil
}

func (m *MockStore) CreateUser(ctx context.Context, u *db.User) (*db.User, error) {
	created := *u
	created.ID = len(m.users) + 1
	m.users[u.Username] = &created
	m.createdUsers = append(m.createdUsers, u.Username)
	return &created, nil
}

func TestRunSeedsEmptyStore(t *testing.T) {
	store := newMockStore()

	require.NoError(t, seed.Run(context.Background(), store))

	require.Len(t, store.createdOptions, 3)
	require.Equal(t, []string{"admin"}, store.createdUsers)
}

func TestRunIsIdempotent(t *testing.T) {
	store := newMockStore()
	require.NoError(t, seed.Run(context.Background(), store))

	created := len(store.createdOptions)
	require.NoError(t, seed.Run(context.Background(), store))

	require.Len(t, store.createdOptions, created)
	require.Equal(t, []string{"admin"}, store.createdUsers)
}

// A default an operator deactivated stays deactivated: it still exists, so
// seeding must not insert a fresh active copy of it.
func TestRunSkipsDeactivatedDefaults(t *testing.T) {
	store := newMockStore()
	store.options = []db.DeliveryOption{{ID: 1, Name: "Самовывоз", IsActive: false}}
	store.users["admin"] = &db.User{ID: 1, Username: "admin"}

	require.NoError(t, seed.Run(context.Background(), store))

	require.NotContains(t, store.createdOptions, "Самовывоз")
	require.False(t, store.options[0].IsActive)
	names := make(map[string]int)
	for _, o := range store.options {
		names[o.Name]++
	}
	require.Equal(t, 1, names["Самовывоз"])
}

func TestRunFillsMissingOptionsOnly(t *testing.T) {
	store := newMockStore()
	store.options = []db.DeliveryOption{{ID: 1, Name: "Самовывоз", IsActive: true}}
	store.users["admin"] = &db.User{ID: 1, Username: "admin"}

	require.NoError(t, seed.Run(context.Background(), store))

	require.Len(t, store.createdOptions, 2)
	require.NotContains(t, store.createdOptions, "Самовывоз")
	require.Empty(t, store.createdUsers)
}
