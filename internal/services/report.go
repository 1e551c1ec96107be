package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/events"
	"tg-miniapp-backend/internal/metrics"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// EscalationThreshold is the number of open reports that bans a user or archives a listing.
const EscalationThreshold = 3

// ReportStore is the storage the report engine needs.
type ReportStore interface {
	repository.UserRepository
	repository.ListingRepository
	repository.ReportRepository
}

type ReportArgs struct {
	ReporterID    string
	Target        models.Target
	Reason        models.ReportReason
	Comment       *string
	AttachmentURL *string
}

type ReportResult struct {
	ReportID    string
	OpenReports int64
	// Escalated is true when this report's insert triggered the ban or archive.
	Escalated bool
}

type ResolveArgs struct {
	ModeratorID string
	Kind        models.TargetKind
	ReportID    string
	Note        *string
}

type StatusArgs struct {
	ModeratorID string
	Target      models.Target
	Demoted     bool
	// ReportID optionally names a report to resolve along with the change.
	ReportID string
}

// ReportService records abuse reports and escalates targets that collect too many open ones.
type ReportService struct {
	repo      ReportStore
	events    events.Publisher
	log       *logrus.Entry
	threshold int64
	now       func() time.Time
}

func NewReportService(repo ReportStore, publisher events.Publisher, log *logrus.Logger) *ReportService {
	return &ReportService{
		repo:      repo,
		events:    publisher,
		log:       log.WithField("service", "report"),
		threshold: EscalationThreshold,
		now:       time.Now,
	}
}

// SubmitReport stores a report from reporter against target and demotes the target once
// its open report count reaches EscalationThreshold. When a step after the insert fails the
// error comes back with a result carrying the stored ReportID.
func (s *ReportService) SubmitReport(ctx context.Context, args ReportArgs) (*ReportResult, error) {
	h, err := s.handle(args.Target)
	if err != nil {
		return nil, err
	}
	if !args.Reason.ValidFor(args.Target.Kind) {
		return nil, InvalidRequest("reason %q is not allowed for %s reports", args.Reason, args.Target.Kind)
	}
	if args.Comment != nil && strings.TrimSpace(*args.Comment) == "" {
		args.Comment = nil
	}

	kind := args.Target.Kind
	log := s.log.WithFields(logrus.Fields{
		"reporter_id": args.ReporterID,
		"target":      args.Target.String(),
	})

	if kind == models.TargetUser && args.Target.ID == args.ReporterID {
		return nil, ErrCannotReportSelf
	}

	ownerID, demoted, err := h.load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, h.notFound()
		}
		log.WithError(err).Error("failed to load report target")
		return nil, Internal(err)
	}
	if kind == models.TargetListing {
		if demoted {
			return nil, ErrListingNotFound
		}
		if ownerID == args.ReporterID {
			return nil, ErrCannotReportOwnListing
		}
	}

	exists, err := s.repo.ReportExists(ctx, args.ReporterID, args.Target)
	if err != nil {
		log.WithError(err).Error("failed to check previous report")
		return nil, Internal(err)
	}
	if exists {
		return nil, ErrAlreadyReported
	}

	reportID, err := s.repo.CreateReport(ctx, repository.CreateReportArgs{
		ReporterID:    args.ReporterID,
		Target:        args.Target,
		Reason:        args.Reason,
		Comment:       args.Comment,
		AttachmentURL: args.AttachmentURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyReported
		}
		log.WithError(err).Error("failed to save report")
		return nil, Internal(err)
	}
	metrics.IncReport(string(kind))
	log = log.WithField("report_id", reportID)

	s.events.Publish(ctx, events.New(events.ReportCreated, nil, targetPayload(args.Target, map[string]interface{}{
		"report_id":   reportID,
		"reporter_id": args.ReporterID,
		"reason":      args.Reason,
	})))

	open, err := s.repo.CountOpenReports(ctx, args.Target)
	if err != nil {
		log.WithError(err).Error("failed to count open reports")
		return &ReportResult{ReportID: reportID}, Internal(err)
	}
	result := &ReportResult{ReportID: reportID, OpenReports: open}
	if open < s.threshold {
		return result, nil
	}

	changed, err := h.demote(ctx)
	if err != nil {
		log.WithError(err).Error("failed to escalate report target")
		return result, Internal(err)
	}
	if !changed {
		return result, nil
	}

	result.Escalated = true
	metrics.IncEscalation(string(kind))
	log.WithField("open_reports", open).Warn("report target escalated")
	s.events.Publish(ctx, events.New(events.TargetEscalated, []string{ownerID}, targetPayload(args.Target, map[string]interface{}{
		"report_id":    reportID,
		"open_reports": open,
	})))
	return result, nil
}

// ResolveReport closes a report. Resolving a resolved report changes nothing.
func (s *ReportService) ResolveReport(ctx context.Context, args ResolveArgs) (bool, error) {
	if !args.Kind.Valid() {
		return false, InvalidRequest("unknown report kind %q", args.Kind)
	}
	log := s.log.WithFields(logrus.Fields{
		"moderator_id": args.ModeratorID,
		"kind":         args.Kind,
		"report_id":    args.ReportID,
	})

	report, err := s.repo.GetReport(ctx, args.Kind, args.ReportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrReportNotFound
		}
		log.WithError(err).Error("failed to load report")
		return false, Internal(err)
	}

	changed, err := s.repo.ResolveReport(ctx, args.Kind, args.ReportID, args.ModeratorID, args.Note, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrReportNotFound
		}
		log.WithError(err).Error("failed to resolve report")
		return false, Internal(err)
	}
	if changed {
		s.events.Publish(ctx, events.New(events.ReportResolved, []string{report.ReporterID}, map[string]interface{}{
			"report_id":    report.ID,
			"kind":         report.Kind,
			"target_id":    report.TargetID,
			"moderator_id": args.ModeratorID,
		}))
	}
	return changed, nil
}

// SetTargetStatus bans, unbans, archives or restores a target regardless of its report count.
func (s *ReportService) SetTargetStatus(ctx context.Context, args StatusArgs) (bool, error) {
	h, err := s.handle(args.Target)
	if err != nil {
		return false, err
	}
	log := s.log.WithFields(logrus.Fields{
		"moderator_id": args.ModeratorID,
		"target":       args.Target.String(),
		"demoted":      args.Demoted,
	})

	ownerID, _, err := h.load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, h.notFound()
		}
		log.WithError(err).Error("failed to load target")
		return false, Internal(err)
	}

	if args.ReportID != "" {
		report, err := s.repo.GetReport(ctx, args.Target.Kind, args.ReportID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, ErrReportNotFound
			}
			log.WithError(err).Error("failed to load report")
			return false, Internal(err)
		}
		if report.TargetID != args.Target.ID || report.Section != args.Target.Section {
			return false, InvalidRequest("report %s is not about this %s", args.ReportID, args.Target.Kind)
		}
	}

	changed, err := h.setStatus(ctx, args.Demoted)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, h.notFound()
		}
		log.WithError(err).Error("failed to change target status")
		return false, Internal(err)
	}

	if args.ReportID != "" {
		note := manualNote(args.Target.Kind, args.Demoted)
		if _, err := s.ResolveReport(ctx, ResolveArgs{
			ModeratorID: args.ModeratorID,
			Kind:        args.Target.Kind,
			ReportID:    args.ReportID,
			Note:        &note,
		}); err != nil {
			return changed, err
		}
	}

	if changed {
		log.Info("target status changed by moderator")
		s.events.Publish(ctx, events.New(events.TargetStatusChanged, []string{ownerID}, targetPayload(args.Target, map[string]interface{}{
			"demoted":      args.Demoted,
			"moderator_id": args.ModeratorID,
		})))
	}
	return changed, nil
}

func targetPayload(target models.Target, payload map[string]interface{}) map[string]interface{} {
	payload["target_kind"] = target.Kind
	payload["target_id"] = target.ID
	if target.Kind == models.TargetListing {
		payload["section"] = target.Section
	}
	return payload
}
