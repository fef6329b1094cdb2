// Package match implements the partner matching engine: the find-partner
// algorithm, the room lifecycle rules and the read-only status projection.
// The engine is invoked concurrently by stateless requests; per-room
// correctness comes from the store's conditional write, never from locks here.
package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tetatet/backend/internal/models"
	"tetatet/backend/internal/profile"
	"tetatet/backend/internal/roomstore"
	"tetatet/backend/internal/token"
)

// Повідомлення для клієнта.
const (
	msgWaiting = "Очікуємо відповідного партнера"
	msgMatched = "Співрозмовника знайдено!"
	msgClosed  = "Кімнату закрито"
)

// createAttempts - кількість спроб створити кімнату зі свіжим UUID.
// Колізія ключа практично неможлива, але CreateIfAbsent чесно її повертає.
const createAttempts = 3

// ProfileProvider - колаборатор, що віддає профіль користувача.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
}

// Notifier публікує події життєвого циклу кімнати в її канал.
// Доставка fire-and-forget: невдача не скасовує матч.
type Notifier interface {
	PublishEvent(ctx context.Context, channel string, event models.RoomEvent) error
}

// Service - оркестратор пошуку партнера.
type Service struct {
	Store    roomstore.Store
	Profiles ProfileProvider
	Tokens   *token.Issuer
	Notifier Notifier // може бути nil
}

// NewService створює оркестратор.
func NewService(store roomstore.Store, profiles ProfileProvider, tokens *token.Issuer, notifier Notifier) *Service {
	return &Service{
		Store:    store,
		Profiles: profiles,
		Tokens:   tokens,
		Notifier: notifier,
	}
}

// ErrProfileNotFound повертається, коли запитувач не має профілю.
var ErrProfileNotFound = errors.New("profile not found")

// FindPartner шукає співрозмовника для запитувача.
//
// Алгоритм:
//  1. Якщо користувач вже в активній кімнаті - ідемпотентна відповідь.
//  2. Сканування кімнат-кандидатів за префіксом шуканої статі, предикат
//     сумісності, умовний запис другого учасника. Конфлікт версій означає,
//     що кімнату вже зайняли - йдемо до наступного кандидата, ніколи не
//     повторюємо запис у той самий ключ.
//  3. Якщо кандидатів немає - нова кімната зі запитувачем як єдиним учасником.
func (s *Service) FindPartner(ctx context.Context, req models.PartnerRequest) (*models.MatchResult, error) {
	applyDefaults(&req)

	user, err := s.Profiles.GetProfile(ctx, req.ID)
	if errors.Is(err, profile.ErrUserNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find partner: %w", err)
	}

	// Знімок запитувача. Нік, стать і вік фіксуються на момент запиту:
	// подальші редагування профілю не впливають на кімнату.
	seeker := models.Participant{
		ID:         user.ID,
		Nickname:   user.Nickname,
		Gender:     user.Gender,
		Age:        user.Age,
		FindGender: req.Gender,
		AgeFrom:    req.AgeFrom,
		AgeTo:      req.AgeTo,
	}

	// 1. Користувач вже має активну кімнату?
	if result, err := s.checkActiveRoom(ctx, seeker); err != nil || result != nil {
		return result, err
	}

	// 2. Пошук сумісної кімнати, що очікує.
	if result, err := s.joinCompatibleRoom(ctx, seeker); err != nil || result != nil {
		return result, err
	}

	// 3. Сумісної кімнати немає - створюємо нову.
	return s.createRoom(ctx, seeker)
}

// applyDefaults відтворює значення за замовчуванням запиту:
// без фільтрів шукаємо будь-кого будь-якого віку.
func applyDefaults(req *models.PartnerRequest) {
	if req.Gender == "" {
		req.Gender = "any"
	}
	if req.AgeTo == 0 {
		req.AgeTo = 999
	}
}

// checkActiveRoom повертає ідемпотентну відповідь, якщо запитувач вже
// перебуває в активній кімнаті. Індекс user -> room робить перевірку O(1).
func (s *Service) checkActiveRoom(ctx context.Context, seeker models.Participant) (*models.MatchResult, error) {
	roomKey, err := s.Store.GetUserRoom(ctx, seeker.ID)
	if err != nil {
		return nil, fmt.Errorf("find partner: %w", err)
	}
	if roomKey == "" {
		return nil, nil
	}

	room, err := s.Store.Get(ctx, roomKey)
	if errors.Is(err, roomstore.ErrRoomNotFound) {
		// Кімната вже зникла - індекс застарів, чистимо та шукаємо далі.
		if err := s.Store.ClearUserRoom(ctx, seeker.ID); err != nil {
			log.Printf("WARNING: failed to drop stale index for user %d: %v", seeker.ID, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find partner: %w", err)
	}

	if !room.HasParticipant(seeker.ID) {
		// Індекс вказує на чужу кімнату - теж застарілий.
		if err := s.Store.ClearUserRoom(ctx, seeker.ID); err != nil {
			log.Printf("WARNING: failed to drop stale index for user %d: %v", seeker.ID, err)
		}
		return nil, nil
	}

	switch room.State() {
	case models.StateMatched:
		return s.grantResult(room, seeker.ID, models.StateMatched)
	case models.StateWaiting:
		// Повторний poll власної кімнати: та сама кімната, свіжий токен,
		// жодного дублювання учасника.
		return s.grantResult(room, seeker.ID, models.StateWaiting)
	default:
		reportIfCorrupt(room)
		return nil, nil
	}
}

// joinCompatibleRoom сканує кімнати-кандидати та пробує приєднатися.
func (s *Service) joinCompatibleRoom(ctx context.Context, seeker models.Participant) (*models.MatchResult, error) {
	rooms, err := s.Store.Scan(ctx, roomstore.RoomScanPrefix(seeker.FindGender))
	if err != nil {
		return nil, fmt.Errorf("find partner: %w", err)
	}

	for _, room := range rooms {
		if room.State() != models.StateWaiting {
			reportIfCorrupt(room)
			continue
		}

		host := room.Participants[0]
		if host.ID == seeker.ID {
			// Власна кімната, яку індекс не впіймав: ідемпотентне очікування.
			return s.grantResult(room, seeker.ID, models.StateWaiting)
		}
		if !IsMatch(seeker, host) {
			continue
		}

		result, err := s.tryJoin(ctx, room, seeker)
		if errors.Is(err, roomstore.ErrVersionConflict) || errors.Is(err, roomstore.ErrRoomNotFound) {
			// Кімнату вже зайняв чи видалив паралельний запит. Саме ця
			// відмова гарантує, що третій учасник неможливий.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find partner: %w", err)
		}
		return result, nil
	}
	return nil, nil
}

// tryJoin додає запитувача другим учасником під умовним записом,
// ключованим версією, прочитаною при скануванні.
func (s *Service) tryJoin(ctx context.Context, room *models.Room, seeker models.Participant) (*models.MatchResult, error) {
	seekerToken, err := s.Tokens.Issue(seeker.ID, room.RoomKey)
	if err != nil {
		return nil, err
	}
	seeker.Token = seekerToken

	updated := *room
	updated.Participants = append(append([]models.Participant(nil), room.Participants...), seeker)
	updated.Version = room.Version + 1

	if err := s.Store.CompareAndSwap(ctx, room.RoomKey, room.Version, &updated); err != nil {
		return nil, err
	}

	if err := s.Store.SetUserRoom(ctx, seeker.ID, room.RoomKey); err != nil {
		log.Printf("WARNING: failed to index room %s for user %d: %v", room.RoomKey, seeker.ID, err)
	}

	host := room.Participants[0]
	s.notify(ctx, room.RoomKey, models.RoomEvent{
		Type:    "match_found",
		RoomKey: room.RoomKey,
		Partner: &models.PartnerInfo{ID: seeker.ID, Nickname: seeker.Nickname},
	})
	log.Printf("INFO: matched users %d and %d in room %s", host.ID, seeker.ID, room.RoomKey)

	return &models.MatchResult{
		Status:  models.StateMatched,
		RoomKey: room.RoomKey,
		Token:   seekerToken,
		Partner: &models.PartnerInfo{ID: host.ID, Nickname: host.Nickname},
		Message: msgMatched,
	}, nil
}

// createRoom створює нову кімнату з запитувачем як єдиним учасником.
// Префікс ключа містить стать творця для дешевого сканування.
func (s *Service) createRoom(ctx context.Context, seeker models.Participant) (*models.MatchResult, error) {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		roomKey := roomstore.FormatRoomKey(seeker.Gender, uuid.New().String())

		seekerToken, err := s.Tokens.Issue(seeker.ID, roomKey)
		if err != nil {
			return nil, fmt.Errorf("find partner: %w", err)
		}
		seeker.Token = seekerToken

		room := &models.Room{
			RoomKey:      roomKey,
			Participants: []models.Participant{seeker},
			CreatedAt:    time.Now(),
			Version:      1,
		}

		err = s.Store.CreateIfAbsent(ctx, room)
		if errors.Is(err, roomstore.ErrRoomExists) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find partner: %w", err)
		}

		if err := s.Store.SetUserRoom(ctx, seeker.ID, roomKey); err != nil {
			log.Printf("WARNING: failed to index room %s for user %d: %v", roomKey, seeker.ID, err)
		}
		log.Printf("INFO: user %d is waiting in new room %s", seeker.ID, roomKey)

		return &models.MatchResult{
			Status:  models.StateWaiting,
			RoomKey: roomKey,
			Token:   seekerToken,
			Message: msgWaiting,
		}, nil
	}
	return nil, fmt.Errorf("find partner: %w", lastErr)
}

// grantResult видає свіжий токен (кожен виклик - новий грант авторизації)
// і формує відповідь для кімнати, в якій запитувач вже перебуває.
func (s *Service) grantResult(room *models.Room, userID int64, status models.RoomState) (*models.MatchResult, error) {
	freshToken, err := s.Tokens.Issue(userID, room.RoomKey)
	if err != nil {
		return nil, fmt.Errorf("find partner: %w", err)
	}

	result := &models.MatchResult{
		Status:  status,
		RoomKey: room.RoomKey,
		Token:   freshToken,
		Message: msgWaiting,
	}
	if status == models.StateMatched {
		partner := room.PartnerOf(userID)
		result.Partner = &models.PartnerInfo{ID: partner.ID, Nickname: partner.Nickname}
		result.Message = msgMatched
	}
	return result, nil
}

func (s *Service) notify(ctx context.Context, channel string, event models.RoomEvent) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.PublishEvent(ctx, channel, event); err != nil {
		log.Printf("WARNING: failed to publish %s event to %s: %v", event.Type, channel, err)
	}
}

// reportIfCorrupt логує кімнату з неможливою кількістю учасників.
// Таку кімнату ніколи не "лікуємо" обрізанням - лише повідомляємо як closed.
func reportIfCorrupt(room *models.Room) {
	if len(room.Participants) > 2 {
		log.Printf("ERROR: invariant violation: room %s has %d participants, treating as closed",
			room.RoomKey, len(room.Participants))
	}
}
