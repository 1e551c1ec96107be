package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileStatus string

const (
	ProfileStatusActive   ProfileStatus = "active"
	ProfileStatusInactive ProfileStatus = "inactive"
)

// Profile is a user's dating-facing identity. There is at most one per user.
type Profile struct {
	ID              string        `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          string        `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName     string        `json:"display_name" gorm:"not null"`
	Age             int           `json:"age" gorm:"not null"`
	Gender          string        `json:"gender" gorm:"type:varchar(16);not null"`
	LookingFor      string        `json:"looking_for" gorm:"type:varchar(16);not null"`
	City            *string       `json:"city,omitempty"`
	Bio             *string       `json:"bio,omitempty"`
	PhotoURL        *string       `json:"photo_url,omitempty"`
	IsActive        bool          `json:"is_active" gorm:"not null;default:true"`
	Status          ProfileStatus `json:"status" gorm:"type:varchar(16);not null;default:active;index"`
	LastActivatedAt *time.Time    `json:"last_activated_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Profile) IsActiveStatus() bool {
	return p.Status == ProfileStatusActive
}
