package gorm

import (
	"gorm.io/gorm"

	"tg-miniapp-backend/internal/repository"
)

// Repository is the gorm implementation of repository.Repository.
type Repository struct {
	db *gorm.DB
}

var _ repository.Repository = (*Repository)(nil)

// NewGormRepository wraps an opened and migrated connection.
func NewGormRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}
