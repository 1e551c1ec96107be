package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/services"
)

// Reporter files abuse reports.
type Reporter interface {
	SubmitReport(ctx context.Context, args services.ReportArgs) (*services.ReportResult, error)
}

// Uploader stores report attachments.
type Uploader interface {
	UploadAttachment(ctx context.Context, userID string, file io.Reader, size int64, filename, contentType string) (string, error)
	DeleteAttachment(ctx context.Context, url string) error
	OwnsURL(url string) bool
}

type ReportHandler struct {
	reports Reporter
	storage Uploader
	log     *logrus.Entry
}

type ReportUserRequest struct {
	UserID        string  `json:"user_id" binding:"required,uuid"`
	Reason        string  `json:"reason" binding:"required"`
	Comment       *string `json:"comment,omitempty" binding:"omitempty,max=1000"`
	AttachmentURL *string `json:"attachment_url,omitempty" binding:"omitempty,url"`
}

type ReportListingRequest struct {
	Reason        string  `json:"reason" binding:"required"`
	Comment       *string `json:"comment,omitempty" binding:"omitempty,max=1000"`
	AttachmentURL *string `json:"attachment_url,omitempty" binding:"omitempty,url"`
}

type UserReportResponse struct {
	ReportID              string `json:"report_id"`
	OpenReports           int64  `json:"open_reports"`
	BannedAfterThisReport bool   `json:"banned_after_this_report"`
}

type ListingReportResponse struct {
	ReportID     string `json:"report_id"`
	OpenReports  int64  `json:"open_reports"`
	AutoArchived bool   `json:"auto_archived"`
}

// NewReportHandler builds the handler; storage may be nil when uploads are not configured.
func NewReportHandler(reports Reporter, storage Uploader, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		storage: storage,
		log:     log.WithField("handler", "report"),
	}
}

func (h *ReportHandler) ReportUser(c *gin.Context) {
	var req ReportUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !h.attachmentAllowed(c, req.AttachmentURL) {
		return
	}

	result, err := h.reports.SubmitReport(c.Request.Context(), services.ReportArgs{
		ReporterID:    currentUserID(c),
		Target:        models.UserTarget(req.UserID),
		Reason:        models.ReportReason(req.Reason),
		Comment:       req.Comment,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		if result == nil || result.ReportID == "" {
			h.discardAttachment(c, req.AttachmentURL)
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, UserReportResponse{
		ReportID:              result.ReportID,
		OpenReports:           result.OpenReports,
		BannedAfterThisReport: result.Escalated,
	})
}

func (h *ReportHandler) ReportListing(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c, h.log, "id", services.ErrListingNotFound)
	if !ok {
		return
	}
	var req ReportListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !h.attachmentAllowed(c, req.AttachmentURL) {
		return
	}

	result, err := h.reports.SubmitReport(c.Request.Context(), services.ReportArgs{
		ReporterID:    currentUserID(c),
		Target:        models.ListingTarget(section, id),
		Reason:        models.ReportReason(req.Reason),
		Comment:       req.Comment,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		if result == nil || result.ReportID == "" {
			h.discardAttachment(c, req.AttachmentURL)
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, ListingReportResponse{
		ReportID:     result.ReportID,
		OpenReports:  result.OpenReports,
		AutoArchived: result.Escalated,
	})
}

// UploadAttachment accepts a multipart "file" image and returns its URL for a later report.
func (h *ReportHandler) UploadAttachment(c *gin.Context) {
	if h.storage == nil {
		respondError(c, h.log, services.InvalidRequest("attachment uploads are disabled"))
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		respondBindError(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		respondBindError(c, err)
		return
	}
	defer file.Close()

	url, err := h.storage.UploadAttachment(c.Request.Context(), currentUserID(c), file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// attachmentAllowed rejects attachment URLs outside our bucket when uploads are configured.
func (h *ReportHandler) attachmentAllowed(c *gin.Context, url *string) bool {
	if url == nil || h.storage == nil || h.storage.OwnsURL(*url) {
		return true
	}
	respondError(c, h.log, services.InvalidRequest("attachment_url must come from the upload endpoint"))
	return false
}

// discardAttachment removes the upload of a report that was not stored.
func (h *ReportHandler) discardAttachment(c *gin.Context, url *string) {
	if url == nil || h.storage == nil {
		return
	}
	if err := h.storage.DeleteAttachment(c.Request.Context(), *url); err != nil {
		h.log.WithError(err).WithField("url", *url).Warn("failed to delete orphaned attachment")
	}
}
