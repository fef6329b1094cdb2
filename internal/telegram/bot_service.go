// Package telegram handles the onboarding bot: it collects the nickname,
// age and gender that the matching engine later snapshots into rooms,
// and lets the user view and edit the profile.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tetatet/backend/internal/config"
	"tetatet/backend/internal/models"
	"tetatet/backend/internal/profile"
	"tetatet/backend/internal/roomstore"
)

// Лінійні стани анкети. Онбордінг - це проста форма: нік -> вік -> стать.
const (
	StateWaitingForNickname = "waiting_for_nickname"
	StateWaitingForAge      = "waiting_for_age"
	StateWaitingForGender   = "waiting_for_gender"
	StateEditingNickname    = "editing_nickname"
	StateEditingAge         = "editing_age"
)

// BotService приймає оновлення Telegram та веде анкету профілю.
type BotService struct {
	BotAPI     *tgbotapi.BotAPI
	Profiles   *profile.Service
	Cache      *roomstore.RedisStore
	Settings   *config.Settings
	userStates map[int64]string
	drafts     map[int64]*models.User
}

// NewBotService створює BotService.
func NewBotService(botToken string, profiles *profile.Service, cache *roomstore.RedisStore, settings *config.Settings) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	return &BotService{
		BotAPI:     bot,
		Profiles:   profiles,
		Cache:      cache,
		Settings:   settings,
		userStates: make(map[int64]string),
		drafts:     make(map[int64]*models.User),
	}, nil
}

// Run запускає цикл отримання оновлень.
func (s *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.Message != nil:
			if update.Message.IsCommand() {
				switch update.Message.Command() {
				case "start":
					s.handleStartCommand(update.Message)
					continue
				case "profile":
					s.handleProfileCommand(update.Message.Chat.ID)
					continue
				case "clear_room":
					s.handleClearRoomCommand(update.Message.Chat.ID, update.Message.CommandArguments())
					continue
				case "clear_redis":
					s.handleClearRedisCommand(update.Message.Chat.ID)
					continue
				}
			}
			s.handleIncomingMessage(update.Message)
		case update.CallbackQuery != nil:
			s.handleCallbackQuery(update.CallbackQuery)
		}
	}
}

// handleStartCommand: користувач із профілем одразу отримує головне меню,
// новий - починає анкету.
func (s *BotService) handleStartCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	_, err := s.Profiles.GetProfile(context.Background(), chatID)
	if err == nil {
		delete(s.userStates, chatID)
		s.sendMainMenu(chatID)
		return
	}

	// Заготовка профілю заповнюється по кроках анкети.
	draft := &models.User{ID: chatID}
	if msg.From != nil {
		if msg.From.UserName != "" {
			username := msg.From.UserName
			draft.Username = &username
		}
		if msg.From.FirstName != "" {
			firstName := msg.From.FirstName
			draft.FirstName = &firstName
		}
		if msg.From.LastName != "" {
			lastName := msg.From.LastName
			draft.LastName = &lastName
		}
	}
	s.drafts[chatID] = draft
	s.userStates[chatID] = StateWaitingForNickname

	s.reply(chatID, "Вітаємо в Тет-а-тет! Вкажіть нікнейм, який бачитиме співрозмовник:")
}

// handleIncomingMessage обробляє текстові відповіді згідно зі станом анкети.
func (s *BotService) handleIncomingMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	state, ok := s.userStates[chatID]
	if !ok || msg.Text == "" {
		s.reply(chatID, "Скористайтеся командою /start або /profile.")
		return
	}

	switch state {
	case StateWaitingForNickname:
		s.drafts[chatID].Nickname = strings.TrimSpace(msg.Text)
		s.userStates[chatID] = StateWaitingForAge
		s.reply(chatID, "Вкажіть ваш вік:")

	case StateWaitingForAge:
		age, err := strconv.Atoi(strings.TrimSpace(msg.Text))
		if err != nil || age < config.MinAge || age > config.MaxAge {
			s.reply(chatID, fmt.Sprintf("Введіть число від %d до %d.", config.MinAge, config.MaxAge))
			return
		}
		s.drafts[chatID].Age = age
		s.userStates[chatID] = StateWaitingForGender
		s.sendGenderKeyboard(chatID)

	case StateEditingNickname:
		nickname := strings.TrimSpace(msg.Text)
		if err := s.Profiles.UpdateNickname(context.Background(), chatID, nickname); err != nil {
			s.reply(chatID, "Не вдалося зберегти нікнейм, спробуйте ще раз.")
			return
		}
		s.invalidateProfileCache(chatID)
		delete(s.userStates, chatID)
		s.reply(chatID, "Ваш нікнейм змінено на: "+nickname)
		s.sendMainMenu(chatID)

	case StateEditingAge:
		age, err := strconv.Atoi(strings.TrimSpace(msg.Text))
		if err != nil || age < config.MinAge || age > config.MaxAge {
			s.reply(chatID, "Введене значення не є коректним віком. Спробуйте ще раз.")
			return
		}
		if err := s.Profiles.UpdateAge(context.Background(), chatID, age); err != nil {
			s.reply(chatID, "Не вдалося зберегти вік, спробуйте ще раз.")
			return
		}
		s.invalidateProfileCache(chatID)
		delete(s.userStates, chatID)
		s.reply(chatID, "Ваш вік змінено на: "+strconv.Itoa(age))
		s.sendMainMenu(chatID)

	default:
		s.reply(chatID, "Скористайтеся командою /start.")
	}
}

func (s *BotService) handleCallbackQuery(callbackQuery *tgbotapi.CallbackQuery) {
	chatID := callbackQuery.Message.Chat.ID
	data := callbackQuery.Data

	// Прибираємо "годинник" на кнопці.
	if _, err := s.BotAPI.Request(tgbotapi.NewCallback(callbackQuery.ID, "")); err != nil {
		log.Printf("WARNING: failed to answer callback: %v", err)
	}

	switch {
	case strings.HasPrefix(data, "set_gender_"):
		s.handleGenderChosen(chatID, strings.TrimPrefix(data, "set_gender_"))
	case data == "my_profile":
		s.handleProfileCommand(chatID)
	case data == "edit_nickname":
		s.userStates[chatID] = StateEditingNickname
		s.reply(chatID, "Вкажіть новий нікнейм:")
	case data == "edit_age":
		s.userStates[chatID] = StateEditingAge
		s.reply(chatID, "Вкажіть актуальний вік:")
	}
}

// handleGenderChosen - останній крок анкети, зберігає профіль.
func (s *BotService) handleGenderChosen(chatID int64, gender string) {
	if s.userStates[chatID] != StateWaitingForGender {
		return
	}
	if gender != "male" && gender != "female" {
		return
	}

	draft, ok := s.drafts[chatID]
	if !ok {
		s.reply(chatID, "Анкету втрачено, почніть з /start.")
		return
	}
	draft.Gender = gender

	if err := s.Profiles.SaveUser(context.Background(), draft); err != nil {
		s.reply(chatID, "Не вдалося зберегти профіль, спробуйте /start ще раз.")
		return
	}
	delete(s.userStates, chatID)
	delete(s.drafts, chatID)

	s.reply(chatID, "Вам відкрито доступ до чату! Для роботи скористайтеся меню нижче.")
	s.sendMainMenu(chatID)
}

// handleProfileCommand показує профіль. Вибірка йде через кеш:
// профіль читається часто, а змінюється рідко.
func (s *BotService) handleProfileCommand(chatID int64) {
	data, err := s.Cache.GetCached(context.Background(), profileCacheKey(chatID), config.ProfileCacheTTL, func() ([]byte, error) {
		user, err := s.Profiles.GetProfile(context.Background(), chatID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(user)
	})
	if err != nil {
		s.reply(chatID, "Профіль не знайдено. Почніть з команди /start.")
		return
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		log.Printf("ERROR: failed to decode cached profile %d: %v", chatID, err)
		s.reply(chatID, "Сталася помилка, спробуйте пізніше.")
		return
	}

	genderText := "👨 Чоловіча"
	if user.Gender == "female" {
		genderText = "👩 Жіноча"
	}

	text := fmt.Sprintf(`<b>👤 Ваш профіль у Тет-а-тет:</b>

• <b>🏷 Нікнейм:</b> %s
• <b>🎂 Вік:</b> %d
• <b>⚧ Стать:</b> %s

✏️ Щоб змінити дані, скористайтеся кнопками нижче.`, user.Nickname, user.Age, genderText)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Нікнейм", "edit_nickname"),
			tgbotapi.NewInlineKeyboardButtonData("🎂 Вік", "edit_age"),
		),
	)
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send profile to %d: %v", chatID, err)
	}
}

// Операторські команди. Список операторів задається через ADMIN_IDS.

func (s *BotService) handleClearRoomCommand(chatID int64, args string) {
	if !s.Settings.IsAdmin(chatID) {
		s.reply(chatID, "Команда доступна лише операторам.")
		return
	}
	roomKey := strings.TrimSpace(args)
	if roomKey == "" {
		s.reply(chatID, "Вкажіть ключ кімнати: /clear_room room:male:<uuid>")
		return
	}
	if err := s.Cache.Delete(context.Background(), roomKey); err != nil {
		log.Printf("ERROR: operator %d failed to clear room %s: %v", chatID, roomKey, err)
		s.reply(chatID, "Не вдалося видалити кімнату.")
		return
	}
	log.Printf("INFO: operator %d cleared room %s", chatID, roomKey)
	s.reply(chatID, "Кімнату "+roomKey+" видалено.")
}

func (s *BotService) handleClearRedisCommand(chatID int64) {
	if !s.Settings.IsAdmin(chatID) {
		s.reply(chatID, "Команда доступна лише операторам.")
		return
	}
	if err := s.Cache.DeleteAll(context.Background()); err != nil {
		log.Printf("ERROR: operator %d failed to flush room store: %v", chatID, err)
		s.reply(chatID, "Не вдалося очистити сховище.")
		return
	}
	log.Printf("INFO: operator %d flushed the room store", chatID)
	s.reply(chatID, "Сховище кімнат очищено.")
}

func (s *BotService) sendGenderKeyboard(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Вкажіть вашу стать:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👨 Чоловіча", "set_gender_male"),
			tgbotapi.NewInlineKeyboardButtonData("👩 Жіноча", "set_gender_female"),
		),
	)
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send gender keyboard to %d: %v", chatID, err)
	}
}

func (s *BotService) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Головне меню:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Мій профіль", "my_profile"),
		),
	)
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send menu to %d: %v", chatID, err)
	}
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: failed to send message to %d: %v", chatID, err)
	}
}

func (s *BotService) invalidateProfileCache(chatID int64) {
	if err := s.Cache.InvalidateCache(context.Background(), profileCacheKey(chatID)); err != nil {
		log.Printf("WARNING: failed to invalidate profile cache %d: %v", chatID, err)
	}
}

func profileCacheKey(chatID int64) string {
	return fmt.Sprintf("profile_cache:%d", chatID)
}
