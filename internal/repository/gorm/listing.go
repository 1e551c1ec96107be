package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

func newListingRow(section models.Section) (interface{}, error) {
	switch section {
	case models.SectionMarket:
		return &models.MarketListing{}, nil
	case models.SectionHousing:
		return &models.HousingListing{}, nil
	case models.SectionJobs:
		return &models.JobListing{}, nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

func findListings[T any](tx *gorm.DB) ([]interface{}, error) {
	var rows []*T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r *T, _ int) interface{} { return r }), nil
}

// CreateListing implements ListingRepository interface.
func (repo *Repository) CreateListing(ctx context.Context, args repository.CreateListingArgs) (interface{}, error) {
	row, err := models.NewListing(args.Section, args.Base, args.Attributes)
	if err != nil {
		return nil, err
	}
	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetListing implements ListingRepository interface.
func (repo *Repository) GetListing(ctx context.Context, section models.Section, id string) (interface{}, error) {
	row, err := newListingRow(section)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(row).Error; err != nil {
		return nil, convertError(err)
	}
	return row, nil
}

// GetListingBase implements ListingRepository interface.
func (repo *Repository) GetListingBase(ctx context.Context, section models.Section, id string) (*models.ListingBase, error) {
	if !section.Valid() || id == "" {
		return nil, repository.ErrNotFound
	}
	var base models.ListingBase
	if err := repo.db.WithContext(ctx).Table(section.Table()).Where("id = ?", id).Take(&base).Error; err != nil {
		return nil, convertError(err)
	}
	return &base, nil
}

// GetActiveListings implements ListingRepository interface.
func (repo *Repository) GetActiveListings(ctx context.Context, section models.Section, offset, limit int) ([]interface{}, int64, error) {
	if !section.Valid() {
		return nil, 0, repository.ErrNotFound
	}
	var total int64
	if err := repo.db.WithContext(ctx).Table(section.Table()).Where("status = ?", models.ListingStatusActive).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := repo.db.WithContext(ctx).
		Where("status = ?", models.ListingStatusActive).
		Order("created_at DESC").
		Scopes(limitAndOffset(limit, offset))

	var (
		rows []interface{}
		err  error
	)
	switch section {
	case models.SectionMarket:
		rows, err = findListings[models.MarketListing](tx)
	case models.SectionHousing:
		rows, err = findListings[models.HousingListing](tx)
	case models.SectionJobs:
		rows, err = findListings[models.JobListing](tx)
	}
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SetListingStatus implements ListingRepository interface.
func (repo *Repository) SetListingStatus(ctx context.Context, section models.Section, id string, status models.ListingStatus) (bool, error) {
	if !section.Valid() || id == "" {
		return false, repository.ErrNotFound
	}
	result := repo.db.WithContext(ctx).Table(section.Table()).
		Where("id = ? AND status <> ?", id, status).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	ok, err := exists(repo.db.WithContext(ctx).Table(section.Table()).Where("id = ?", id))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, repository.ErrNotFound
	}
	return false, nil
}

// CountListingsByStatus implements ListingRepository interface.
func (repo *Repository) CountListingsByStatus(ctx context.Context, status models.ListingStatus) (int64, error) {
	var total int64
	for _, section := range models.Sections {
		var n int64
		if err := repo.db.WithContext(ctx).Table(section.Table()).Where("status = ?", status).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
