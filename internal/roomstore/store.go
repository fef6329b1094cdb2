// Package roomstore provides access to the shared room store.
// The store is the only shared mutable resource of the matching engine:
// correctness under concurrent requests comes from its conditional-write
// primitive, not from in-process locks.
package roomstore

import (
	"context"
	"errors"
	"fmt"

	"tetatet/backend/internal/models"
)

// Сентинельні помилки адаптера. Викликач розрізняє їх через errors.Is;
// будь-яка інша помилка означає недоступність сховища (транзієнтна).
var (
	// ErrRoomNotFound - ключ відсутній. Це очікуваний результат, не збій.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists - CreateIfAbsent наштовхнувся на наявний ключ.
	ErrRoomExists = errors.New("room already exists")
	// ErrVersionConflict - інший запит змінив кімнату після нашого читання.
	ErrVersionConflict = errors.New("room version conflict")
)

// Store is the capability set the matching orchestrator needs,
// independent of the concrete store technology.
type Store interface {
	// Get повертає кімнату або ErrRoomNotFound.
	Get(ctx context.Context, key string) (*models.Room, error)
	// Scan повертає кімнати, ключі яких починаються з префікса.
	// Порядок не гарантується.
	Scan(ctx context.Context, prefix string) ([]*models.Room, error)
	// CreateIfAbsent записує нову кімнату, або ErrRoomExists.
	CreateIfAbsent(ctx context.Context, room *models.Room) error
	// CompareAndSwap замінює кімнату, лише якщо збережена версія дорівнює
	// expectedVersion. Інакше ErrVersionConflict або ErrRoomNotFound.
	CompareAndSwap(ctx context.Context, key string, expectedVersion int64, room *models.Room) error
	// Delete видаляє кімнату. Видалення відсутнього ключа не є помилкою.
	Delete(ctx context.Context, key string) error
	// DeleteAll - адміністративне повне очищення. Не для публічного шляху.
	DeleteAll(ctx context.Context) error

	// SetUserRoom прив'язує користувача до активної кімнати (індекс).
	SetUserRoom(ctx context.Context, userID int64, roomKey string) error
	// GetUserRoom повертає ключ активної кімнати користувача або "".
	GetUserRoom(ctx context.Context, userID int64) (string, error)
	// ClearUserRoom знімає прив'язку.
	ClearUserRoom(ctx context.Context, userID int64) error
}

const roomKeyPrefix = "room:"

// FormatRoomKey будує ключ кімнати. Префікс містить стать творця,
// щоб сканувати лише кімнати потрібної статі.
func FormatRoomKey(creatorGender, id string) string {
	return fmt.Sprintf("%s%s:%s", roomKeyPrefix, creatorGender, id)
}

// RoomScanPrefix повертає префікс сканування для шуканої статі.
// "any" означає всі кімнати.
func RoomScanPrefix(findGender string) string {
	if findGender == "" || findGender == "any" {
		return roomKeyPrefix
	}
	return roomKeyPrefix + findGender + ":"
}

// FormatUserRoomKey будує ключ індексу користувач -> кімната.
func FormatUserRoomKey(userID int64) string {
	return fmt.Sprintf("user_room:%d", userID)
}
