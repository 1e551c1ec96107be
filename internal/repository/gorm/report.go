package gorm

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

func (repo *Repository) reportTargetScope(ctx context.Context, target models.Target) (*gorm.DB, error) {
	db := repo.db.WithContext(ctx)
	switch target.Kind {
	case models.TargetUser:
		return db.Model(&models.UserReport{}).Where("reported_user_id = ?", target.ID), nil
	case models.TargetListing:
		return db.Model(&models.ListingReport{}).Where("section = ? AND listing_id = ?", target.Section, target.ID), nil
	}
	return nil, fmt.Errorf("unknown target kind %q", target.Kind)
}

func reportModel(kind models.TargetKind) (interface{}, error) {
	switch kind {
	case models.TargetUser:
		return &models.UserReport{}, nil
	case models.TargetListing:
		return &models.ListingReport{}, nil
	}
	return nil, fmt.Errorf("unknown target kind %q", kind)
}

// ReportExists implements ReportRepository interface.
func (repo *Repository) ReportExists(ctx context.Context, reporterID string, target models.Target) (bool, error) {
	scope, err := repo.reportTargetScope(ctx, target)
	if err != nil {
		return false, err
	}
	return exists(scope.Where("reporter_id = ?", reporterID))
}

// CreateReport implements ReportRepository interface.
func (repo *Repository) CreateReport(ctx context.Context, args repository.CreateReportArgs) (string, error) {
	base := models.ReportBase{
		Reason:        args.Reason,
		Comment:       args.Comment,
		AttachmentURL: args.AttachmentURL,
		Status:        models.ReportStatusNew,
	}

	var row interface{}
	switch args.Target.Kind {
	case models.TargetUser:
		row = &models.UserReport{ReporterID: args.ReporterID, ReportedUserID: args.Target.ID, ReportBase: base}
	case models.TargetListing:
		row = &models.ListingReport{ReporterID: args.ReporterID, Section: args.Target.Section, ListingID: args.Target.ID, ReportBase: base}
	default:
		return "", fmt.Errorf("unknown target kind %q", args.Target.Kind)
	}

	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicatedRecordErr(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", err
	}
	if r, ok := row.(*models.UserReport); ok {
		return r.ID, nil
	}
	return row.(*models.ListingReport).ID, nil
}

// CountOpenReports implements ReportRepository interface.
func (repo *Repository) CountOpenReports(ctx context.Context, target models.Target) (int64, error) {
	scope, err := repo.reportTargetScope(ctx, target)
	if err != nil {
		return 0, err
	}
	var n int64
	err = scope.Where("status = ?", models.ReportStatusNew).Count(&n).Error
	return n, err
}

// GetReport implements ReportRepository interface.
func (repo *Repository) GetReport(ctx context.Context, kind models.TargetKind, id string) (*models.ReportView, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	switch kind {
	case models.TargetUser:
		var r models.UserReport
		if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
			return nil, convertError(err)
		}
		v := r.View()
		return &v, nil
	case models.TargetListing:
		var r models.ListingReport
		if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
			return nil, convertError(err)
		}
		v := r.View()
		return &v, nil
	}
	return nil, repository.ErrNotFound
}

// ResolveReport implements ReportRepository interface.
func (repo *Repository) ResolveReport(ctx context.Context, kind models.TargetKind, id, resolverID string, note *string, at time.Time) (bool, error) {
	model, err := reportModel(kind)
	if err != nil {
		return false, repository.ErrNotFound
	}
	result := repo.db.WithContext(ctx).Model(model).
		Where("id = ? AND status = ?", id, models.ReportStatusNew).
		Updates(map[string]interface{}{
			"status":         models.ReportStatusResolved,
			"resolved_by":    resolverID,
			"resolved_at":    at,
			"moderator_note": note,
			"updated_at":     at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	ok, err := exists(repo.db.WithContext(ctx).Model(model).Where("id = ?", id))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, repository.ErrNotFound
	}
	return false, nil
}

// GetReports implements ReportRepository interface.
func (repo *Repository) GetReports(ctx context.Context, query repository.ReportQuery) ([]*models.ReportView, int64, error) {
	model, err := reportModel(query.Kind)
	if err != nil {
		return nil, 0, err
	}
	filter := func(db *gorm.DB) *gorm.DB {
		if query.Status != "" {
			return db.Where("status = ?", query.Status)
		}
		return db
	}

	var total int64
	if err := repo.db.WithContext(ctx).Model(model).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	tx := repo.db.WithContext(ctx).Scopes(filter).Order("created_at DESC").Scopes(limitAndOffset(query.Limit, query.Offset))

	views := make([]*models.ReportView, 0)
	switch query.Kind {
	case models.TargetUser:
		var rows []*models.UserReport
		if err := tx.Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		for _, r := range rows {
			v := r.View()
			views = append(views, &v)
		}
	case models.TargetListing:
		var rows []*models.ListingReport
		if err := tx.Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		for _, r := range rows {
			v := r.View()
			views = append(views, &v)
		}
	}
	return views, total, nil
}

// CountReportsByStatus implements ReportRepository interface.
func (repo *Repository) CountReportsByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	var total int64
	for _, model := range []interface{}{&models.UserReport{}, &models.ListingReport{}} {
		var n int64
		if err := repo.db.WithContext(ctx).Model(model).Where("status = ?", status).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
