package gorm

import (
	"context"
	"strings"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// CreateModerator implements ModeratorRepository interface.
func (repo *Repository) CreateModerator(ctx context.Context, email, name, passwordHash string) (*models.Moderator, error) {
	m := &models.Moderator{
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicatedRecordErr(err) {
			return nil, repository.ErrAlreadyExists
		}
		return nil, err
	}
	return m, nil
}

// GetModerator implements ModeratorRepository interface.
func (repo *Repository) GetModerator(ctx context.Context, id string) (*models.Moderator, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	var m models.Moderator
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, convertError(err)
	}
	return &m, nil
}

// GetModeratorByEmail implements ModeratorRepository interface.
func (repo *Repository) GetModeratorByEmail(ctx context.Context, email string) (*models.Moderator, error) {
	var m models.Moderator
	if err := repo.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&m).Error; err != nil {
		return nil, convertError(err)
	}
	return &m, nil
}
