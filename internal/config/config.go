package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings - конфігурація процесу, читається зі змінних середовища
// (локально - з .env через godotenv у main).
type Settings struct {
	HTTPAddr      string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	TokenTTL      time.Duration
	RoomTTL       time.Duration
	BotToken      string
	AdminIDs      []int64
}

// Load збирає Settings. Обов'язкові лише секрет токена та DSN бази;
// решта має розумні значення за замовчуванням.
func Load() (*Settings, error) {
	s := &Settings{
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		BotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TokenTTL:      DefaultTokenTTL,
		RoomTTL:       DefaultRoomTTL,
	}

	if s.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET не встановлено")
	}
	if s.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN не встановлено")
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
		s.RedisDB = db
	}
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTL_MINUTES: %w", err)
		}
		s.TokenTTL = time.Duration(minutes) * time.Minute
	}
	if v := os.Getenv("ROOM_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ROOM_TTL_HOURS: %w", err)
		}
		s.RoomTTL = time.Duration(hours) * time.Hour
	}

	for _, raw := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS: %w", err)
		}
		s.AdminIDs = append(s.AdminIDs, id)
	}

	return s, nil
}

// IsAdmin перевіряє, чи належить Telegram ID до операторів.
func (s *Settings) IsAdmin(userID int64) bool {
	for _, id := range s.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

