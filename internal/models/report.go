package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportStatusNew      ReportStatus = "new"
	ReportStatusResolved ReportStatus = "resolved"
)

type ReportReason string

const (
	ReasonSpam          ReportReason = "spam"
	ReasonFake          ReportReason = "fake"
	ReasonHarassment    ReportReason = "harassment"
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonScam          ReportReason = "scam"
	ReasonUnderage      ReportReason = "underage"
	ReasonFraud         ReportReason = "fraud"
	ReasonProhibited    ReportReason = "prohibited"
	ReasonMisleading    ReportReason = "misleading"
	ReasonDuplicate     ReportReason = "duplicate"
	ReasonOther         ReportReason = "other"
)

var (
	userReportReasons = []ReportReason{
		ReasonSpam, ReasonFake, ReasonHarassment, ReasonInappropriate, ReasonScam, ReasonUnderage, ReasonOther,
	}
	listingReportReasons = []ReportReason{
		ReasonSpam, ReasonFraud, ReasonProhibited, ReasonMisleading, ReasonDuplicate, ReasonOther,
	}
)

// ValidFor reports whether the reason may be used against targets of the given kind.
func (r ReportReason) ValidFor(kind TargetKind) bool {
	reasons := userReportReasons
	if kind == TargetListing {
		reasons = listingReportReasons
	}
	for _, v := range reasons {
		if v == r {
			return true
		}
	}
	return false
}

// ReportBase holds the columns shared by both report tables.
type ReportBase struct {
	Reason        ReportReason `json:"reason" gorm:"type:varchar(32);not null"`
	Comment       *string      `json:"comment,omitempty" gorm:"type:text"`
	AttachmentURL *string      `json:"attachment_url,omitempty"`
	Status        ReportStatus `json:"status" gorm:"type:varchar(16);not null;default:new;index"`
	ResolvedBy    *string      `json:"resolved_by,omitempty" gorm:"type:uuid"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty"`
	ModeratorNote *string      `json:"moderator_note,omitempty" gorm:"type:text"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// UserReport is a dating-domain report against another user.
type UserReport struct {
	ID             string `json:"id" gorm:"type:uuid;primaryKey"`
	ReporterID     string `json:"reporter_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_reports_pair"`
	ReportedUserID string `json:"reported_user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_reports_pair;index"`
	ReportBase     `gorm:"embedded"`
}

func (r *UserReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ListingReport is a report against a listing in one of the sections.
type ListingReport struct {
	ID         string  `json:"id" gorm:"type:uuid;primaryKey"`
	ReporterID string  `json:"reporter_id" gorm:"type:uuid;not null;uniqueIndex:idx_listing_reports_pair"`
	Section    Section `json:"section" gorm:"type:varchar(16);not null;uniqueIndex:idx_listing_reports_pair;index:idx_listing_reports_target"`
	ListingID  string  `json:"listing_id" gorm:"type:uuid;not null;uniqueIndex:idx_listing_reports_pair;index:idx_listing_reports_target"`
	ReportBase `gorm:"embedded"`
}

func (r *ListingReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReportView is the moderation-facing shape of either report kind.
type ReportView struct {
	ID         string     `json:"id"`
	Kind       TargetKind `json:"kind"`
	ReporterID string     `json:"reporter_id"`
	TargetID   string     `json:"target_id"`
	Section    Section    `json:"section,omitempty"`
	ReportBase
}

func (r *UserReport) View() ReportView {
	return ReportView{ID: r.ID, Kind: TargetUser, ReporterID: r.ReporterID, TargetID: r.ReportedUserID, ReportBase: r.ReportBase}
}

func (r *ListingReport) View() ReportView {
	return ReportView{ID: r.ID, Kind: TargetListing, ReporterID: r.ReporterID, TargetID: r.ListingID, Section: r.Section, ReportBase: r.ReportBase}
}
