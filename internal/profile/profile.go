// Package profile persists user profiles in PostgreSQL. The matching engine
// consumes it only through the GetProfile contract; profile edits never
// touch rooms in progress.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"tetatet/backend/internal/models"
)

// ErrUserNotFound - профіль відсутній. Очікуваний результат для нових
// користувачів, не збій.
var ErrUserNotFound = errors.New("user not found")

// Service - сховище профілів поверх GORM.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// GetProfile повертає профіль користувача за Telegram ID.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		log.Printf("ERROR: failed to get profile %d: %v", userID, err)
		return nil, fmt.Errorf("get profile %d: %w", userID, err)
	}
	return &user, nil
}

// SaveUser створює або оновлює профіль цілком (онбордінг).
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		log.Printf("ERROR: failed to save profile %d: %v", user.ID, err)
		return fmt.Errorf("save profile %d: %w", user.ID, err)
	}
	return nil
}

// UpdateNickname змінює нікнейм існуючого профілю.
func (s *Service) UpdateNickname(ctx context.Context, userID int64, nickname string) error {
	return s.updateColumn(ctx, userID, "nickname", nickname)
}

// UpdateAge змінює вік існуючого профілю.
func (s *Service) UpdateAge(ctx context.Context, userID int64, age int) error {
	return s.updateColumn(ctx, userID, "age", age)
}

func (s *Service) updateColumn(ctx context.Context, userID int64, column string, value interface{}) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, value)
	if result.Error != nil {
		log.Printf("ERROR: failed to update %s for user %d: %v", column, userID, result.Error)
		return fmt.Errorf("update profile %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
