package models

import (
	"github.com/lib/pq" // Необхідний для pq.StringArray
)

// User представляє профіль користувача в системі.
// Ідентифікатором слугує Telegram ID, нікнейм показується співрозмовнику.
type User struct {
	ID        int64   `gorm:"primaryKey;autoIncrement:false" json:"id"` // Telegram chat ID
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Nickname  string  `gorm:"not null" json:"nickname"`
	Gender    string  `gorm:"not null" json:"gender"` // "male" або "female"
	Age       int     `gorm:"not null" json:"age"`

	Interests pq.StringArray `gorm:"type:text[]" json:"interests"` // Теги про себе
}
