package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

func (s *Store) UpsertTelegramUser(_ context.Context, args repository.UpsertTelegramUserArgs) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if id, ok := s.usersByTG[args.TelegramID]; ok {
		u := s.users[id]
		u.Username, u.FirstName, u.LastName, u.LangCode = args.Username, args.FirstName, args.LastName, args.LangCode
		u.LastSeen = &now
		u.UpdatedAt = now
		c := *u
		return &c, nil
	}

	u := &models.User{
		ID:         uuid.NewString(),
		TelegramID: args.TelegramID,
		Username:   args.Username,
		FirstName:  args.FirstName,
		LastName:   args.LastName,
		LangCode:   args.LangCode,
		Status:     models.UserStatusActive,
		LastSeen:   &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.users[u.ID] = u
	s.usersByTG[u.TelegramID] = u.ID
	c := *u
	return &c, nil
}

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *Store) GetUsers(_ context.Context, ids []string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		if u, ok := s.users[id]; ok {
			c := *u
			users = append(users, &c)
		}
	}
	return users, nil
}

func (s *Store) SetUserStatus(_ context.Context, id string, status models.UserStatus) (bool, error) {
	if id == "" {
		return false, repository.ErrNilID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if u.Status == status {
		return false, nil
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) CountUsersByStatus(_ context.Context, status models.UserStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(lo.CountBy(lo.Values(s.users), func(u *models.User) bool { return u.Status == status })), nil
}

func (s *Store) CreateModerator(_ context.Context, email, name, passwordHash string) (*models.Moderator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, m := range s.moderators {
		if m.Email == email {
			return nil, repository.ErrAlreadyExists
		}
	}
	now := time.Now()
	m := &models.Moderator{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.moderators[m.ID] = m
	c := *m
	return &c, nil
}

func (s *Store) GetModerator(_ context.Context, id string) (*models.Moderator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.moderators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (s *Store) GetModeratorByEmail(_ context.Context, email string) (*models.Moderator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, m := range s.moderators {
		if m.Email == email {
			c := *m
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}
