package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// User is the account record, distinct from the dating profile.
type User struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	TelegramID int64      `json:"telegram_id" gorm:"uniqueIndex;not null"`
	Username   *string    `json:"username,omitempty"`
	FirstName  string     `json:"first_name" gorm:"not null"`
	LastName   *string    `json:"last_name,omitempty"`
	LangCode   *string    `json:"language_code,omitempty"`
	Status     UserStatus `json:"status" gorm:"type:varchar(16);not null;default:active;index"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// Moderator accounts log into the moderation panel with email and password.
type Moderator struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *Moderator) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
