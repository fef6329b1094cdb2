package roomstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"tetatet/backend/internal/models"
)

// RedisStore реалізує Store поверх Redis.
// Кімнати зберігаються як JSON; умовний запис виконується через
// оптимістичне блокування WATCH + транзакція.
type RedisStore struct {
	Client  *redis.Client
	RoomTTL time.Duration // 0 = без TTL
}

// NewRedisStore створює адаптер. TTL кімнати обирається деплойментом:
// протухлий ключ читається як відсутній, що двигун і так трактує як closed.
func NewRedisStore(client *redis.Client, roomTTL time.Duration) *RedisStore {
	return &RedisStore{Client: client, RoomTTL: roomTTL}
}

// decodeRoom розбирає збережений запис. Пошкоджений запис не є фатальним:
// повертаємо nil, викликач трактує кімнату як closed.
func decodeRoom(data []byte) *models.Room {
	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		log.Printf("WARNING: malformed room record skipped: %v", err)
		return nil
	}
	if room.RoomKey == "" {
		log.Printf("WARNING: room record without room_key skipped")
		return nil
	}
	return &room
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.Room, error) {
	data, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("room store get %s: %w", key, err)
	}

	room := decodeRoom(data)
	if room == nil {
		// Пошкоджений запис еквівалентний закритій кімнаті.
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *RedisStore) Scan(ctx context.Context, prefix string) ([]*models.Room, error) {
	var rooms []*models.Room

	iter := s.Client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		room, err := s.Get(ctx, iter.Val())
		if errors.Is(err, ErrRoomNotFound) {
			continue // ключ зник між SCAN та GET
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("room store scan %s: %w", prefix, err)
	}
	return rooms, nil
}

func (s *RedisStore) CreateIfAbsent(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("room store marshal %s: %w", room.RoomKey, err)
	}

	ok, err := s.Client.SetNX(ctx, room.RoomKey, data, s.RoomTTL).Result()
	if err != nil {
		return fmt.Errorf("room store create %s: %w", room.RoomKey, err)
	}
	if !ok {
		return ErrRoomExists
	}
	return nil
}

// CompareAndSwap використовує документований патерн go-redis для
// оптимістичного блокування: WATCH на ключі, перевірка версії,
// запис у транзакції. Якщо ключ змінився між читанням та записом,
// транзакція провалюється з redis.TxFailedErr.
func (s *RedisStore) CompareAndSwap(ctx context.Context, key string, expectedVersion int64, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("room store marshal %s: %w", key, err)
	}

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrRoomNotFound
		}
		if err != nil {
			return err
		}

		stored := decodeRoom(current)
		if stored == nil || stored.Version != expectedVersion {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.RoomTTL)
			return nil
		})
		return err
	}

	err = s.Client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Ключ перезаписано паралельним запитом під час транзакції.
		return ErrVersionConflict
	}
	if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrVersionConflict) {
		return err
	}
	if err != nil {
		return fmt.Errorf("room store cas %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	// Unlink не блокує Redis на великих значеннях; відсутній ключ - не помилка.
	if err := s.Client.Unlink(ctx, key).Err(); err != nil {
		return fmt.Errorf("room store delete %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) DeleteAll(ctx context.Context) error {
	if err := s.Client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("room store flush: %w", err)
	}
	log.Println("INFO: room store flushed")
	return nil
}

func (s *RedisStore) SetUserRoom(ctx context.Context, userID int64, roomKey string) error {
	key := FormatUserRoomKey(userID)
	if err := s.Client.Set(ctx, key, roomKey, s.RoomTTL).Err(); err != nil {
		return fmt.Errorf("room store set index %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) GetUserRoom(ctx context.Context, userID int64) (string, error) {
	roomKey, err := s.Client.Get(ctx, FormatUserRoomKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("room store get index %d: %w", userID, err)
	}
	return roomKey, nil
}

func (s *RedisStore) ClearUserRoom(ctx context.Context, userID int64) error {
	if err := s.Client.Unlink(ctx, FormatUserRoomKey(userID)).Err(); err != nil {
		return fmt.Errorf("room store clear index %d: %w", userID, err)
	}
	return nil
}
