package gorm

import (
	"context"
	"time"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// GetMatch implements MatchRepository interface.
func (repo *Repository) GetMatch(ctx context.Context, user1ID, user2ID string) (*models.Match, error) {
	u1, u2 := models.CanonicalPair(user1ID, user2ID)
	var m models.Match
	if err := repo.db.WithContext(ctx).Where("user1_id = ? AND user2_id = ?", u1, u2).First(&m).Error; err != nil {
		return nil, convertError(err)
	}
	return &m, nil
}

// CreateMatch implements MatchRepository interface.
func (repo *Repository) CreateMatch(ctx context.Context, user1ID, user2ID string) (*models.Match, error) {
	if user1ID == "" || user2ID == "" {
		return nil, repository.ErrNilID
	}
	u1, u2 := models.CanonicalPair(user1ID, user2ID)
	now := time.Now()
	m := &models.Match{
		User1ID:        u1,
		User2ID:        u2,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicatedRecordErr(err) {
			return nil, repository.ErrAlreadyExists
		}
		return nil, err
	}
	return m, nil
}

// GetMatchesByUserID implements MatchRepository interface.
func (repo *Repository) GetMatchesByUserID(ctx context.Context, userID string) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	err := repo.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("last_activity_at DESC").
		Find(&matches).Error
	return matches, err
}

// CountMatches implements MatchRepository interface.
func (repo *Repository) CountMatches(ctx context.Context) (int64, error) {
	var n int64
	err := repo.db.WithContext(ctx).Model(&models.Match{}).Count(&n).Error
	return n, err
}
