package repository

import (
	"context"
	"time"

	"tg-miniapp-backend/internal/models"
)

// Repository is the full storage surface used by the service.
type Repository interface {
	UserRepository
	ModeratorRepository
	ProfileRepository
	SwipeRepository
	MatchRepository
	ListingRepository
	ReportRepository
}

type UpsertTelegramUserArgs struct {
	TelegramID int64
	Username   *string
	FirstName  string
	LastName   *string
	LangCode   *string
}

type UserRepository interface {
	// UpsertTelegramUser creates the user for a telegram id or refreshes its names and last_seen.
	UpsertTelegramUser(ctx context.Context, args UpsertTelegramUserArgs) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context, ids []string) ([]*models.User, error)
	// SetUserStatus updates the status only if it differs; the bool reports whether a row changed.
	SetUserStatus(ctx context.Context, id string, status models.UserStatus) (bool, error)
	CountUsersByStatus(ctx context.Context, status models.UserStatus) (int64, error)
}

type ModeratorRepository interface {
	CreateModerator(ctx context.Context, email, name, passwordHash string) (*models.Moderator, error)
	GetModerator(ctx context.Context, id string) (*models.Moderator, error)
	GetModeratorByEmail(ctx context.Context, email string) (*models.Moderator, error)
}

type SaveProfileArgs struct {
	UserID      string
	DisplayName string
	Age         int
	Gender      string
	LookingFor  string
	City        *string
	Bio         *string
	PhotoURL    *string
}

type ProfileRepository interface {
	// SaveProfile upserts the user's profile keyed by user id.
	SaveProfile(ctx context.Context, args SaveProfileArgs) (*models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// SetProfileActive toggles the active flag and status; activation stamps last_activated_at.
	SetProfileActive(ctx context.Context, userID string, active bool, at time.Time) (*models.Profile, error)
	// GetFeedProfiles returns active profiles of active users the user has not swiped yet.
	GetFeedProfiles(ctx context.Context, userID string, limit int) ([]*models.Profile, error)
}

type SwipeRepository interface {
	// UpsertSwipe writes the decision for (fromUserID, toProfileID), replacing any earlier one.
	UpsertSwipe(ctx context.Context, fromUserID, toProfileID string, decision models.Decision) (*models.Swipe, error)
	GetSwipe(ctx context.Context, fromUserID, toProfileID string) (*models.Swipe, error)
}

type MatchRepository interface {
	// GetMatch looks the pair up in canonical order.
	GetMatch(ctx context.Context, user1ID, user2ID string) (*models.Match, error)
	// CreateMatch inserts the canonical pair, returning ErrAlreadyExists on a unique violation.
	CreateMatch(ctx context.Context, user1ID, user2ID string) (*models.Match, error)
	GetMatchesByUserID(ctx context.Context, userID string) ([]*models.Match, error)
	CountMatches(ctx context.Context) (int64, error)
}

type CreateListingArgs struct {
	Section    models.Section
	Base       models.ListingBase
	Attributes models.ListingAttributes
}

type ListingRepository interface {
	CreateListing(ctx context.Context, args CreateListingArgs) (interface{}, error)
	// GetListing returns the full section row (e.g. *models.MarketListing).
	GetListing(ctx context.Context, section models.Section, id string) (interface{}, error)
	GetListingBase(ctx context.Context, section models.Section, id string) (*models.ListingBase, error)
	GetActiveListings(ctx context.Context, section models.Section, offset, limit int) ([]interface{}, int64, error)
	// SetListingStatus updates the status only if it differs; the bool reports whether a row changed.
	SetListingStatus(ctx context.Context, section models.Section, id string, status models.ListingStatus) (bool, error)
	CountListingsByStatus(ctx context.Context, status models.ListingStatus) (int64, error)
}

type CreateReportArgs struct {
	ReporterID    string
	Target        models.Target
	Reason        models.ReportReason
	Comment       *string
	AttachmentURL *string
}

type ReportQuery struct {
	Kind   models.TargetKind
	Status models.ReportStatus
	Offset int
	Limit  int
}

type ReportRepository interface {
	ReportExists(ctx context.Context, reporterID string, target models.Target) (bool, error)
	// CreateReport returns ErrAlreadyExists when the reporter already reported the target.
	CreateReport(ctx context.Context, args CreateReportArgs) (string, error)
	CountOpenReports(ctx context.Context, target models.Target) (int64, error)
	GetReport(ctx context.Context, kind models.TargetKind, id string) (*models.ReportView, error)
	// ResolveReport marks a new report resolved; the bool is false when it was already resolved.
	ResolveReport(ctx context.Context, kind models.TargetKind, id, resolverID string, note *string, at time.Time) (bool, error)
	GetReports(ctx context.Context, query ReportQuery) ([]*models.ReportView, int64, error)
	CountReportsByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
}
