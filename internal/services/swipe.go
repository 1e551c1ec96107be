package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/events"
	"tg-miniapp-backend/internal/metrics"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// SwipeStore is the storage the swipe engine needs.
type SwipeStore interface {
	repository.ProfileRepository
	repository.SwipeRepository
	repository.MatchRepository
}

type SwipeArgs struct {
	ActingUserID    string
	TargetProfileID string
	Decision        models.Decision
}

type SwipeResult struct {
	MatchCreated bool   `json:"match_created"`
	MatchID      string `json:"match_id,omitempty"`
}

// SwipeService records decisions and turns reciprocal likes into matches.
type SwipeService struct {
	repo   SwipeStore
	events events.Publisher
	log    *logrus.Entry
}

func NewSwipeService(repo SwipeStore, publisher events.Publisher, log *logrus.Logger) *SwipeService {
	return &SwipeService{
		repo:   repo,
		events: publisher,
		log:    log.WithField("service", "swipe"),
	}
}

// RecordSwipe stores the acting user's decision on the target profile. A like answering an earlier
// like from the target's owner creates the pair's match unless one already exists.
func (s *SwipeService) RecordSwipe(ctx context.Context, args SwipeArgs) (*SwipeResult, error) {
	if !args.Decision.Valid() {
		return nil, InvalidRequest("decision must be like or dislike")
	}
	log := s.log.WithFields(logrus.Fields{
		"user_id":    args.ActingUserID,
		"profile_id": args.TargetProfileID,
		"decision":   args.Decision,
	})

	acting, err := s.repo.GetProfileByUserID(ctx, args.ActingUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		log.WithError(err).Error("failed to load acting profile")
		return nil, Internal(err)
	}

	target, err := s.repo.GetProfile(ctx, args.TargetProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		log.WithError(err).Error("failed to load target profile")
		return nil, Internal(err)
	}

	if target.UserID == args.ActingUserID {
		return nil, ErrCannotSwipeSelf
	}
	if !acting.IsActiveStatus() || !target.IsActiveStatus() {
		return nil, ErrProfileNotActive
	}

	if _, err := s.repo.UpsertSwipe(ctx, args.ActingUserID, target.ID, args.Decision); err != nil {
		log.WithError(err).Error("failed to save swipe")
		return nil, Internal(err)
	}
	metrics.IncSwipe(string(args.Decision))

	result := &SwipeResult{}
	if args.Decision != models.DecisionLike {
		return result, nil
	}

	reciprocal, err := s.repo.GetSwipe(ctx, target.UserID, acting.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return result, nil
		}
		log.WithError(err).Error("failed to look up reciprocal swipe")
		return nil, Internal(err)
	}
	if reciprocal.Decision != models.DecisionLike {
		return result, nil
	}

	if _, err := s.repo.GetMatch(ctx, args.ActingUserID, target.UserID); err == nil {
		return result, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.WithError(err).Error("failed to check existing match")
		return nil, Internal(err)
	}

	m, err := s.repo.CreateMatch(ctx, args.ActingUserID, target.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrAlreadyExists) {
			log.WithError(err).Warn("failed to create match")
		}
		return result, nil
	}

	result.MatchCreated = true
	result.MatchID = m.ID
	metrics.IncMatchCreated()
	log.WithField("match_id", m.ID).Info("match created")

	s.events.Publish(ctx, events.New(events.MatchCreated, []string{m.User1ID, m.User2ID}, map[string]interface{}{
		"match_id": m.ID,
		"user1_id": m.User1ID,
		"user2_id": m.User2ID,
	}))
	return result, nil
}
