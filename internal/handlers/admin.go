package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
	"tg-miniapp-backend/internal/services"
)

// Moderation is the report engine surface moderators act through.
type Moderation interface {
	ResolveReport(ctx context.Context, args services.ResolveArgs) (bool, error)
	SetTargetStatus(ctx context.Context, args services.StatusArgs) (bool, error)
}

// AdminStore is the read side of the moderation panel.
type AdminStore interface {
	GetReports(ctx context.Context, query repository.ReportQuery) ([]*models.ReportView, int64, error)
	CountReportsByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
	CountUsersByStatus(ctx context.Context, status models.UserStatus) (int64, error)
	CountListingsByStatus(ctx context.Context, status models.ListingStatus) (int64, error)
	CountMatches(ctx context.Context) (int64, error)
}

type AdminHandler struct {
	repo    AdminStore
	reports Moderation
	log     *logrus.Entry
}

type ResolveReportRequest struct {
	Note *string `json:"note,omitempty" binding:"omitempty,max=1000"`
}

type UpdateUserStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=active banned"`
	ReportID string `json:"report_id,omitempty" binding:"omitempty,uuid"`
}

type UpdateListingStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=active archived"`
	ReportID string `json:"report_id,omitempty" binding:"omitempty,uuid"`
}

type ReportListResponse struct {
	Reports []*models.ReportView `json:"reports"`
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
}

type StatsResponse struct {
	OpenReports      int64 `json:"open_reports"`
	BannedUsers      int64 `json:"banned_users"`
	ArchivedListings int64 `json:"archived_listings"`
	Matches          int64 `json:"matches"`
}

func NewAdminHandler(repo AdminStore, reports Moderation, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		repo:    repo,
		reports: reports,
		log:     log.WithField("handler", "admin"),
	}
}

func (h *AdminHandler) GetReports(c *gin.Context) {
	kind := models.TargetKind(c.DefaultQuery("kind", string(models.TargetUser)))
	if !kind.Valid() {
		respondError(c, h.log, services.InvalidRequest("kind must be user or listing"))
		return
	}
	status := models.ReportStatus(c.DefaultQuery("status", string(models.ReportStatusNew)))
	if status != models.ReportStatusNew && status != models.ReportStatusResolved {
		respondError(c, h.log, services.InvalidRequest("status must be new or resolved"))
		return
	}
	page, limit := pagination(c, 20, 100)

	reports, total, err := h.repo.GetReports(c.Request.Context(), repository.ReportQuery{
		Kind:   kind,
		Status: status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ReportListResponse{Reports: reports, Total: total, Page: page, Limit: limit})
}

func (h *AdminHandler) ResolveReport(c *gin.Context) {
	kind := models.TargetKind(c.Param("kind"))
	id, ok := idParam(c, h.log, "id", services.ErrReportNotFound)
	if !ok {
		return
	}
	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	changed, err := h.reports.ResolveReport(c.Request.Context(), services.ResolveArgs{
		ModeratorID: currentUserID(c),
		Kind:        kind,
		ReportID:    id,
		Note:        req.Note,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, ok := idParam(c, h.log, "id", services.ErrUserNotFound)
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.setStatus(c, models.UserTarget(id), req.Status == string(models.UserStatusBanned), req.ReportID)
}

func (h *AdminHandler) UpdateListingStatus(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c, h.log, "id", services.ErrListingNotFound)
	if !ok {
		return
	}
	var req UpdateListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.setStatus(c, models.ListingTarget(section, id), req.Status == string(models.ListingStatusArchived), req.ReportID)
}

func (h *AdminHandler) setStatus(c *gin.Context, target models.Target, demoted bool, reportID string) {
	changed, err := h.reports.SetTargetStatus(c.Request.Context(), services.StatusArgs{
		ModeratorID: currentUserID(c),
		Target:      target,
		Demoted:     demoted,
		ReportID:    reportID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// GetStats loads the dashboard counters concurrently.
func (h *AdminHandler) GetStats(c *gin.Context) {
	var stats StatsResponse
	eg, ctx := errgroup.WithContext(c.Request.Context())

	eg.Go(func() (err error) {
		stats.OpenReports, err = h.repo.CountReportsByStatus(ctx, models.ReportStatusNew)
		return err
	})
	eg.Go(func() (err error) {
		stats.BannedUsers, err = h.repo.CountUsersByStatus(ctx, models.UserStatusBanned)
		return err
	})
	eg.Go(func() (err error) {
		stats.ArchivedListings, err = h.repo.CountListingsByStatus(ctx, models.ListingStatusArchived)
		return err
	})
	eg.Go(func() (err error) {
		stats.Matches, err = h.repo.CountMatches(ctx)
		return err
	})

	if err := eg.Wait(); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
