package gorm

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// SaveProfile implements ProfileRepository interface.
func (repo *Repository) SaveProfile(ctx context.Context, args repository.SaveProfileArgs) (*models.Profile, error) {
	if args.UserID == "" {
		return nil, repository.ErrNilID
	}
	now := time.Now()
	p := &models.Profile{
		UserID:          args.UserID,
		DisplayName:     args.DisplayName,
		Age:             args.Age,
		Gender:          args.Gender,
		LookingFor:      args.LookingFor,
		City:            args.City,
		Bio:             args.Bio,
		PhotoURL:        args.PhotoURL,
		IsActive:        true,
		Status:          models.ProfileStatusActive,
		LastActivatedAt: &now,
	}
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "age", "gender", "looking_for", "city", "bio", "photo_url", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return nil, err
	}
	return repo.GetProfileByUserID(ctx, args.UserID)
}

// GetProfile implements ProfileRepository interface.
func (repo *Repository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	var p models.Profile
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, convertError(err)
	}
	return &p, nil
}

// GetProfileByUserID implements ProfileRepository interface.
func (repo *Repository) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, repository.ErrNotFound
	}
	var p models.Profile
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, convertError(err)
	}
	return &p, nil
}

// SetProfileActive implements ProfileRepository interface.
func (repo *Repository) SetProfileActive(ctx context.Context, userID string, active bool, at time.Time) (*models.Profile, error) {
	changes := map[string]interface{}{
		"is_active":  active,
		"status":     models.ProfileStatusInactive,
		"updated_at": at,
	}
	if active {
		changes["status"] = models.ProfileStatusActive
		changes["last_activated_at"] = at
	}
	result := repo.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return repo.GetProfileByUserID(ctx, userID)
}

// GetFeedProfiles implements ProfileRepository interface.
func (repo *Repository) GetFeedProfiles(ctx context.Context, userID string, limit int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0)
	err := repo.db.WithContext(ctx).
		Model(&models.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profiles.user_id <> ?", userID).
		Where("profiles.status = ? AND users.status = ?", models.ProfileStatusActive, models.UserStatusActive).
		Where("NOT EXISTS (SELECT 1 FROM swipes WHERE swipes.from_user_id = ? AND swipes.to_profile_id = profiles.id)", userID).
		Order("profiles.last_activated_at DESC NULLS LAST").
		Scopes(limitAndOffset(limit, 0)).
		Find(&profiles).Error
	return profiles, err
}
