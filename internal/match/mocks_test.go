package match_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"tetatet/backend/internal/models"
	"tetatet/backend/internal/profile"
	"tetatet/backend/internal/roomstore"
)

// MockStore is a testify mock of roomstore.Store for failure-path tests.
// Happy-path tests use roomstore.MemoryStore, which has real CAS semantics.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (*models.Room, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStore) Scan(ctx context.Context, prefix string) ([]*models.Room, error) {
	args := m.Called(prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockStore) CreateIfAbsent(ctx context.Context, room *models.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStore) CompareAndSwap(ctx context.Context, key string, expectedVersion int64, room *models.Room) error {
	args := m.Called(key, expectedVersion, room)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockStore) DeleteAll(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStore) SetUserRoom(ctx context.Context, userID int64, roomKey string) error {
	args := m.Called(userID, roomKey)
	return args.Error(0)
}

func (m *MockStore) GetUserRoom(ctx context.Context, userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockStore) ClearUserRoom(ctx context.Context, userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

var _ roomstore.Store = (*MockStore)(nil)

// fakeProfiles serves profiles from a map, standing in for the Postgres-backed
// collaborator.
type fakeProfiles struct {
	users map[int64]models.User
}

func newFakeProfiles(users ...models.User) *fakeProfiles {
	p := &fakeProfiles{users: make(map[int64]models.User)}
	for _, u := range users {
		p.users[u.ID] = u
	}
	return p
}

func (p *fakeProfiles) GetProfile(_ context.Context, userID int64) (*models.User, error) {
	user, ok := p.users[userID]
	if !ok {
		return nil, profile.ErrUserNotFound
	}
	return &user, nil
}

// recordingNotifier collects published room events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.RoomEvent
}

func (n *recordingNotifier) PublishEvent(_ context.Context, channel string, event models.RoomEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) Events() []models.RoomEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.RoomEvent(nil), n.events...)
}
