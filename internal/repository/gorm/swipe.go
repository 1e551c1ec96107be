package gorm

import (
	"context"

	"gorm.io/gorm/clause"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// UpsertSwipe implements SwipeRepository interface.
func (repo *Repository) UpsertSwipe(ctx context.Context, fromUserID, toProfileID string, decision models.Decision) (*models.Swipe, error) {
	if fromUserID == "" || toProfileID == "" {
		return nil, repository.ErrNilID
	}
	s := &models.Swipe{
		FromUserID:  fromUserID,
		ToProfileID: toProfileID,
		Decision:    decision,
	}
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"decision", "updated_at"}),
	}).Create(s).Error
	if err != nil {
		return nil, err
	}
	return repo.GetSwipe(ctx, fromUserID, toProfileID)
}

// GetSwipe implements SwipeRepository interface.
func (repo *Repository) GetSwipe(ctx context.Context, fromUserID, toProfileID string) (*models.Swipe, error) {
	var s models.Swipe
	err := repo.db.WithContext(ctx).
		Where("from_user_id = ? AND to_profile_id = ?", fromUserID, toProfileID).
		First(&s).Error
	if err != nil {
		return nil, convertError(err)
	}
	return &s, nil
}
