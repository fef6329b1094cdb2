package match

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tetatet/backend/internal/models"
	"tetatet/backend/internal/roomstore"
)

// RoomStatus - проєкція стану кімнати для опитування клієнтом, лише читання.
// Відсутня кімната - це "closed", а не помилка; помилкою є лише
// недоступність сховища.
func (s *Service) RoomStatus(ctx context.Context, roomKey string, userID int64) (*models.MatchResult, error) {
	room, err := s.Store.Get(ctx, roomKey)
	if errors.Is(err, roomstore.ErrRoomNotFound) {
		return closedResult(roomKey), nil
	}
	if err != nil {
		return nil, fmt.Errorf("room status: %w", err)
	}

	switch room.State() {
	case models.StateMatched:
		partner := room.PartnerOf(userID)
		if partner == nil {
			// Два учасники й обидва - запитувач: такого стану не існує.
			log.Printf("ERROR: room %s has no partner for user %d", roomKey, userID)
			return closedResult(roomKey), nil
		}
		return &models.MatchResult{
			Status:  models.StateMatched,
			RoomKey: roomKey,
			Partner: &models.PartnerInfo{ID: partner.ID, Nickname: partner.Nickname},
			Message: msgMatched,
		}, nil
	case models.StateWaiting:
		return &models.MatchResult{
			Status:  models.StateWaiting,
			RoomKey: roomKey,
			Message: msgWaiting,
		}, nil
	default:
		reportIfCorrupt(room)
		return closedResult(roomKey), nil
	}
}

func closedResult(roomKey string) *models.MatchResult {
	return &models.MatchResult{
		Status:  models.StateClosed,
		RoomKey: roomKey,
		Message: msgClosed,
	}
}

// ClearRoom - адміністративне закриття кімнати: сповіщає канал, знімає
// індекси учасників та видаляє ключ. Ідемпотентне.
func (s *Service) ClearRoom(ctx context.Context, roomKey string) error {
	room, err := s.Store.Get(ctx, roomKey)
	if err != nil && !errors.Is(err, roomstore.ErrRoomNotFound) {
		return fmt.Errorf("clear room: %w", err)
	}
	if room != nil {
		s.notify(ctx, roomKey, models.RoomEvent{Type: "room_closed", RoomKey: roomKey})
		for _, p := range room.Participants {
			if err := s.Store.ClearUserRoom(ctx, p.ID); err != nil {
				log.Printf("WARNING: failed to drop index for user %d: %v", p.ID, err)
			}
		}
	}

	if err := s.Store.Delete(ctx, roomKey); err != nil {
		return fmt.Errorf("clear room: %w", err)
	}
	log.Printf("INFO: room %s cleared", roomKey)
	return nil
}

// ClearAll - адміністративне повне очищення сховища кімнат.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.Store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	return nil
}
