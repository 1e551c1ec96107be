package services

import (
	"context"

	"tg-miniapp-backend/internal/models"
)

// targetHandle is the per-kind part of moderation: loading, demoting and restoring one target.
type targetHandle interface {
	// load returns the owner (the user itself for user targets) and whether the target is demoted.
	load(ctx context.Context) (ownerID string, demoted bool, err error)
	// demote bans or archives the target; false when it already was.
	demote(ctx context.Context) (bool, error)
	setStatus(ctx context.Context, demoted bool) (bool, error)
	notFound() *Error
}

type userTarget struct {
	repo ReportStore
	id   string
}

func (t userTarget) load(ctx context.Context) (string, bool, error) {
	u, err := t.repo.GetUser(ctx, t.id)
	if err != nil {
		return "", false, err
	}
	return u.ID, u.IsBanned(), nil
}

func (t userTarget) demote(ctx context.Context) (bool, error) {
	return t.setStatus(ctx, true)
}

func (t userTarget) setStatus(ctx context.Context, demoted bool) (bool, error) {
	status := models.UserStatusActive
	if demoted {
		status = models.UserStatusBanned
	}
	return t.repo.SetUserStatus(ctx, t.id, status)
}

func (userTarget) notFound() *Error { return ErrUserNotFound }

type listingTarget struct {
	repo    ReportStore
	section models.Section
	id      string
}

func (t listingTarget) load(ctx context.Context) (string, bool, error) {
	l, err := t.repo.GetListingBase(ctx, t.section, t.id)
	if err != nil {
		return "", false, err
	}
	return l.OwnerID, l.IsArchived(), nil
}

func (t listingTarget) demote(ctx context.Context) (bool, error) {
	return t.setStatus(ctx, true)
}

func (t listingTarget) setStatus(ctx context.Context, demoted bool) (bool, error) {
	status := models.ListingStatusActive
	if demoted {
		status = models.ListingStatusArchived
	}
	return t.repo.SetListingStatus(ctx, t.section, t.id, status)
}

func (listingTarget) notFound() *Error { return ErrListingNotFound }

func (s *ReportService) handle(target models.Target) (targetHandle, error) {
	switch target.Kind {
	case models.TargetUser:
		if target.ID == "" {
			return nil, InvalidRequest("user id is required")
		}
		return userTarget{repo: s.repo, id: target.ID}, nil
	case models.TargetListing:
		if !target.Section.Valid() {
			return nil, InvalidRequest("unknown section %q", target.Section)
		}
		if target.ID == "" {
			return nil, InvalidRequest("listing id is required")
		}
		return listingTarget{repo: s.repo, section: target.Section, id: target.ID}, nil
	}
	return nil, InvalidRequest("unknown target kind %q", target.Kind)
}

// manualNote is the moderator note recorded when a status change resolves a report.
func manualNote(kind models.TargetKind, demoted bool) string {
	switch {
	case kind == models.TargetUser && demoted:
		return "banned manually"
	case kind == models.TargetUser:
		return "ban lifted manually"
	case demoted:
		return "archived manually"
	default:
		return "archive lifted manually"
	}
}
