package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

func (s *Store) ReportExists(_ context.Context, reporterID string, target models.Target) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch target.Kind {
	case models.TargetUser:
		_, ok := s.userReportPair[pairKey{reporterID, target.ID}]
		return ok, nil
	case models.TargetListing:
		_, ok := s.listingPair[listingReportKey{reporterID, listingKey{target.Section, target.ID}}]
		return ok, nil
	}
	return false, fmt.Errorf("unknown target kind %q", target.Kind)
}

func (s *Store) CreateReport(_ context.Context, args repository.CreateReportArgs) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	base := models.ReportBase{
		Reason:        args.Reason,
		Comment:       args.Comment,
		AttachmentURL: args.AttachmentURL,
		Status:        models.ReportStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	id := uuid.NewString()

	switch args.Target.Kind {
	case models.TargetUser:
		key := pairKey{args.ReporterID, args.Target.ID}
		if _, ok := s.userReportPair[key]; ok {
			return "", repository.ErrAlreadyExists
		}
		s.userReports[id] = &models.UserReport{ID: id, ReporterID: args.ReporterID, ReportedUserID: args.Target.ID, ReportBase: base}
		s.userReportPair[key] = id
	case models.TargetListing:
		key := listingReportKey{args.ReporterID, listingKey{args.Target.Section, args.Target.ID}}
		if _, ok := s.listingPair[key]; ok {
			return "", repository.ErrAlreadyExists
		}
		s.listingReports[id] = &models.ListingReport{ID: id, ReporterID: args.ReporterID, Section: args.Target.Section, ListingID: args.Target.ID, ReportBase: base}
		s.listingPair[key] = id
	default:
		return "", fmt.Errorf("unknown target kind %q", args.Target.Kind)
	}
	return id, nil
}

func (s *Store) CountOpenReports(_ context.Context, target models.Target) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	switch target.Kind {
	case models.TargetUser:
		for _, r := range s.userReports {
			if r.ReportedUserID == target.ID && r.Status == models.ReportStatusNew {
				n++
			}
		}
	case models.TargetListing:
		for _, r := range s.listingReports {
			if r.Section == target.Section && r.ListingID == target.ID && r.Status == models.ReportStatusNew {
				n++
			}
		}
	default:
		return 0, fmt.Errorf("unknown target kind %q", target.Kind)
	}
	return n, nil
}

func (s *Store) reportBase(kind models.TargetKind, id string) (*models.ReportBase, bool) {
	switch kind {
	case models.TargetUser:
		if r, ok := s.userReports[id]; ok {
			return &r.ReportBase, true
		}
	case models.TargetListing:
		if r, ok := s.listingReports[id]; ok {
			return &r.ReportBase, true
		}
	}
	return nil, false
}

func (s *Store) GetReport(_ context.Context, kind models.TargetKind, id string) (*models.ReportView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case models.TargetUser:
		if r, ok := s.userReports[id]; ok {
			v := r.View()
			return &v, nil
		}
	case models.TargetListing:
		if r, ok := s.listingReports[id]; ok {
			v := r.View()
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ResolveReport(_ context.Context, kind models.TargetKind, id, resolverID string, note *string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base, ok := s.reportBase(kind, id)
	if !ok {
		return false, repository.ErrNotFound
	}
	if base.Status != models.ReportStatusNew {
		return false, nil
	}
	base.Status = models.ReportStatusResolved
	base.ResolvedBy = &resolverID
	base.ResolvedAt = &at
	base.ModeratorNote = note
	base.UpdatedAt = at
	return true, nil
}

func (s *Store) GetReports(_ context.Context, query repository.ReportQuery) ([]*models.ReportView, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var views []*models.ReportView
	add := func(v models.ReportView) {
		if query.Status == "" || v.Status == query.Status {
			views = append(views, &v)
		}
	}
	switch query.Kind {
	case models.TargetUser:
		for _, r := range s.userReports {
			add(r.View())
		}
	case models.TargetListing:
		for _, r := range s.listingReports {
			add(r.View())
		}
	default:
		return nil, 0, fmt.Errorf("unknown target kind %q", query.Kind)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })

	total := int64(len(views))
	if query.Offset >= len(views) {
		return []*models.ReportView{}, total, nil
	}
	views = views[query.Offset:]
	if query.Limit > 0 && len(views) > query.Limit {
		views = views[:query.Limit]
	}
	return views, total, nil
}

func (s *Store) CountReportsByStatus(_ context.Context, status models.ReportStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.userReports {
		if r.Status == status {
			n++
		}
	}
	for _, r := range s.listingReports {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}
