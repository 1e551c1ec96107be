package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

// AdminStoreMock covers the read side of the moderation panel.
type AdminStoreMock struct {
	mock.Mock
}

func (m *AdminStoreMock) GetReports(ctx context.Context, query repository.ReportQuery) ([]*models.ReportView, int64, error) {
	args := m.Called(ctx, query)
	var reports []*models.ReportView
	if val := args.Get(0); val != nil {
		reports = val.([]*models.ReportView)
	}
	return reports, args.Get(1).(int64), args.Error(2)
}

func (m *AdminStoreMock) CountReportsByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AdminStoreMock) CountUsersByStatus(ctx context.Context, status models.UserStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AdminStoreMock) CountListingsByStatus(ctx context.Context, status models.ListingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AdminStoreMock) CountMatches(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) UpsertTelegramUser(ctx context.Context, args repository.UpsertTelegramUserArgs) (*models.User, error) {
	ret := m.Called(ctx, args)
	var user *models.User
	if val := ret.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, ret.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUsers(ctx context.Context, ids []string) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	var users []*models.User
	if val := args.Get(0); val != nil {
		users = val.([]*models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SetUserStatus(ctx context.Context, id string, status models.UserStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) CountUsersByStatus(ctx context.Context, status models.UserStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}
