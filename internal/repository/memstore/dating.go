package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

func (s *Store) SaveProfile(_ context.Context, args repository.SaveProfileArgs) (*models.Profile, error) {
	if args.UserID == "" {
		return nil, repository.ErrNilID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p, ok := s.profiles[s.profilesByUser[args.UserID]]
	if !ok {
		p = &models.Profile{
			ID:              uuid.NewString(),
			UserID:          args.UserID,
			IsActive:        true,
			Status:          models.ProfileStatusActive,
			LastActivatedAt: &now,
			CreatedAt:       now,
		}
		s.profiles[p.ID] = p
		s.profilesByUser[p.UserID] = p.ID
	}
	p.DisplayName, p.Age, p.Gender, p.LookingFor = args.DisplayName, args.Age, args.Gender, args.LookingFor
	p.City, p.Bio, p.PhotoURL = args.City, args.Bio, args.PhotoURL
	p.UpdatedAt = now
	c := *p
	return &c, nil
}

func (s *Store) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *Store) GetProfileByUserID(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[s.profilesByUser[userID]]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *Store) SetProfileActive(_ context.Context, userID string, active bool, at time.Time) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[s.profilesByUser[userID]]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.IsActive = active
	p.Status = models.ProfileStatusInactive
	if active {
		p.Status = models.ProfileStatusActive
		p.LastActivatedAt = &at
	}
	p.UpdatedAt = at
	c := *p
	return &c, nil
}

func (s *Store) GetFeedProfiles(_ context.Context, userID string, limit int) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feed := lo.Filter(lo.Values(s.profiles), func(p *models.Profile, _ int) bool {
		if p.UserID == userID || !p.IsActiveStatus() {
			return false
		}
		if u, ok := s.users[p.UserID]; !ok || u.IsBanned() {
			return false
		}
		_, swiped := s.swipes[pairKey{userID, p.ID}]
		return !swiped
	})
	sort.Slice(feed, func(i, j int) bool {
		a, b := feed[i].LastActivatedAt, feed[j].LastActivatedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return lo.Map(feed, func(p *models.Profile, _ int) *models.Profile {
		c := *p
		return &c
	}), nil
}

func (s *Store) UpsertSwipe(_ context.Context, fromUserID, toProfileID string, decision models.Decision) (*models.Swipe, error) {
	if fromUserID == "" || toProfileID == "" {
		return nil, repository.ErrNilID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := pairKey{fromUserID, toProfileID}
	sw, ok := s.swipes[key]
	if !ok {
		sw = &models.Swipe{ID: uuid.NewString(), FromUserID: fromUserID, ToProfileID: toProfileID, CreatedAt: now}
		s.swipes[key] = sw
	}
	sw.Decision = decision
	sw.UpdatedAt = now
	c := *sw
	return &c, nil
}

func (s *Store) GetSwipe(_ context.Context, fromUserID, toProfileID string) (*models.Swipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sw, ok := s.swipes[pairKey{fromUserID, toProfileID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *sw
	return &c, nil
}

func (s *Store) GetMatch(_ context.Context, user1ID, user2ID string) (*models.Match, error) {
	u1, u2 := models.CanonicalPair(user1ID, user2ID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[pairKey{u1, u2}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (s *Store) CreateMatch(_ context.Context, user1ID, user2ID string) (*models.Match, error) {
	if user1ID == "" || user2ID == "" {
		return nil, repository.ErrNilID
	}
	u1, u2 := models.CanonicalPair(user1ID, user2ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreateMatch != nil {
		return nil, s.FailCreateMatch
	}
	key := pairKey{u1, u2}
	if _, ok := s.matches[key]; ok {
		return nil, repository.ErrAlreadyExists
	}
	now := time.Now()
	m := &models.Match{ID: uuid.NewString(), User1ID: u1, User2ID: u2, CreatedAt: now, LastActivityAt: now}
	s.matches[key] = m
	c := *m
	return &c, nil
}

func (s *Store) GetMatchesByUserID(_ context.Context, userID string) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*models.Match, 0)
	for _, m := range s.matches {
		if m.HasUser(userID) {
			c := *m
			matches = append(matches, &c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].LastActivityAt.After(matches[j].LastActivityAt) })
	return matches, nil
}

func (s *Store) CountMatches(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matches)), nil
}
