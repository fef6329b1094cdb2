package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tetatet/backend/internal/api/handler"
	"tetatet/backend/internal/config"
	"tetatet/backend/internal/match"
	"tetatet/backend/internal/models"
	"tetatet/backend/internal/profile"
	"tetatet/backend/internal/relay"
	"tetatet/backend/internal/roomstore"
	"tetatet/backend/internal/telegram"
	"tetatet/backend/internal/token"
)

func setupDependencies(settings *config.Settings) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(settings.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     settings.RedisAddr,
		Password: settings.RedisPassword,
		DB:       settings.RedisDB,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Tet-a-tet Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies(settings)
	store := roomstore.NewRedisStore(rdb, settings.RoomTTL)
	profiles := profile.NewService(db)
	issuer := token.NewIssuer(settings.JWTSecret, settings.TokenTTL)
	publisher := relay.NewPublisher(rdb)

	// 2. Оркестратор матчингу
	matcher := match.NewService(store, profiles, issuer, publisher)

	// 3. Telegram-бот онбордінгу (необов'язковий для локального API-запуску)
	if settings.BotToken != "" {
		botService, err := telegram.NewBotService(settings.BotToken, profiles, store, settings)
		if err != nil {
			log.Fatalf("Не вдалося запустити Telegram-бота: %v", err)
		}
		go botService.Run()
	} else {
		log.Println("Warning: TELEGRAM_BOT_TOKEN не встановлено, бот вимкнено")
	}

	// 4. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(matcher, publisher, issuer)

	api := r.Group("/api")
	{
		api.POST("/find-partner", h.FindPartner)
		api.GET("/room-status", h.RoomStatus)
		api.POST("/send-msg/:room_id", h.SendMessage)
	}

	// Адміністративні маршрути поза гарячим шляхом матчингу.
	admin := r.Group("/api/admin")
	{
		admin.POST("/clear-room/:room_id", h.ClearRoom)
		admin.POST("/clear-all", h.ClearAll)
	}

	r.GET("/ws", h.StreamRoomEvents)

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           settings.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
