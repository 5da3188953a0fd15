package ds

import (
	"time"

	"github.com/google/uuid"
)

// Пользователи админки
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Login        string    `gorm:"type:varchar(50);unique;not null" json:"login"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(100)" json:"full_name"`
	Email        string    `gorm:"type:varchar(100)" json:"email"`
	Role         int       `gorm:"type:int;default:0;not null" json:"role"` // 0 viewer, 1 accountant, 2 admin
	CreatedAt    time.Time `json:"created_at"`
}
