package roomstore

import (
	"context"
	"strings"
	"sync"

	"tetatet/backend/internal/models"
)

// MemoryStore - реалізація Store у пам'яті процесу. Використовується в
// тестах та для локального запуску без Redis. Семантика умовного запису
// така ж, як у RedisStore.
type MemoryStore struct {
	mu        sync.Mutex
	rooms     map[string]models.Room
	userIndex map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:     make(map[string]models.Room),
		userIndex: make(map[int64]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[key]
	if !ok {
		return nil, ErrRoomNotFound
	}
	copied := cloneRoom(room)
	return &copied, nil
}

func (s *MemoryStore) Scan(_ context.Context, prefix string) ([]*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rooms []*models.Room
	for key, room := range s.rooms {
		if strings.HasPrefix(key, prefix) {
			copied := cloneRoom(room)
			rooms = append(rooms, &copied)
		}
	}
	return rooms, nil
}

func (s *MemoryStore) CreateIfAbsent(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.RoomKey]; ok {
		return ErrRoomExists
	}
	s.rooms[room.RoomKey] = cloneRoom(*room)
	return nil
}

func (s *MemoryStore) CompareAndSwap(_ context.Context, key string, expectedVersion int64, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rooms[key]
	if !ok {
		return ErrRoomNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	s.rooms[key] = cloneRoom(*room)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, key)
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms = make(map[string]models.Room)
	s.userIndex = make(map[int64]string)
	return nil
}

func (s *MemoryStore) SetUserRoom(_ context.Context, userID int64, roomKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userIndex[userID] = roomKey
	return nil
}

func (s *MemoryStore) GetUserRoom(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userIndex[userID], nil
}

func (s *MemoryStore) ClearUserRoom(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.userIndex, userID)
	return nil
}

// Len повертає кількість збережених кімнат (для тестів).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.rooms)
}

// cloneRoom робить глибоку копію, щоб викликачі не ділили слайс учасників.
func cloneRoom(room models.Room) models.Room {
	copied := room
	copied.Participants = append([]models.Participant(nil), room.Participants...)
	return copied
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*RedisStore)(nil)
