package gorm

import (
	"context"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm/clause"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// UpsertTelegramUser implements UserRepository interface.
func (repo *Repository) UpsertTelegramUser(ctx context.Context, args repository.UpsertTelegramUserArgs) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		TelegramID: args.TelegramID,
		Username:   args.Username,
		FirstName:  args.FirstName,
		LastName:   args.LastName,
		LangCode:   args.LangCode,
		Status:     models.UserStatusActive,
		LastSeen:   &now,
	}
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "lang_code", "last_seen", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}

	// on conflict the generated id is not the stored one
	var stored models.User
	if err := repo.db.WithContext(ctx).Where("telegram_id = ?", args.TelegramID).First(&stored).Error; err != nil {
		return nil, convertError(err)
	}
	return &stored, nil
}

// GetUser implements UserRepository interface.
func (repo *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	var user models.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, convertError(err)
	}
	return &user, nil
}

// GetUsers implements UserRepository interface.
func (repo *Repository) GetUsers(ctx context.Context, ids []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	err := repo.db.WithContext(ctx).Where("id = ANY(?::uuid[])", pq.Array(ids)).Find(&users).Error
	return users, err
}

// SetUserStatus implements UserRepository interface.
func (repo *Repository) SetUserStatus(ctx context.Context, id string, status models.UserStatus) (bool, error) {
	if id == "" {
		return false, repository.ErrNilID
	}
	result := repo.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND status <> ?", id, status).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	ok, err := exists(repo.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, repository.ErrNotFound
	}
	return false, nil
}

// CountUsersByStatus implements UserRepository interface.
func (repo *Repository) CountUsersByStatus(ctx context.Context, status models.UserStatus) (int64, error) {
	var n int64
	err := repo.db.WithContext(ctx).Model(&models.User{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
