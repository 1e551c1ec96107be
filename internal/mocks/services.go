package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tg-miniapp-backend/internal/services"
)

type SwipeServiceMock struct {
	mock.Mock
}

func (m *SwipeServiceMock) RecordSwipe(ctx context.Context, args services.SwipeArgs) (*services.SwipeResult, error) {
	ret := m.Called(ctx, args)
	var result *services.SwipeResult
	if val := ret.Get(0); val != nil {
		result = val.(*services.SwipeResult)
	}
	return result, ret.Error(1)
}

type ReportServiceMock struct {
	mock.Mock
}

func (m *ReportServiceMock) SubmitReport(ctx context.Context, args services.ReportArgs) (*services.ReportResult, error) {
	ret := m.Called(ctx, args)
	var result *services.ReportResult
	if val := ret.Get(0); val != nil {
		result = val.(*services.ReportResult)
	}
	return result, ret.Error(1)
}

func (m *ReportServiceMock) ResolveReport(ctx context.Context, args services.ResolveArgs) (bool, error) {
	ret := m.Called(ctx, args)
	return ret.Bool(0), ret.Error(1)
}

func (m *ReportServiceMock) SetTargetStatus(ctx context.Context, args services.StatusArgs) (bool, error) {
	ret := m.Called(ctx, args)
	return ret.Bool(0), ret.Error(1)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) UploadAttachment(ctx context.Context, userID string, file io.Reader, size int64, filename, contentType string) (string, error) {
	ret := m.Called(ctx, userID, file, size, filename, contentType)
	return ret.String(0), ret.Error(1)
}

func (m *UploaderMock) DeleteAttachment(ctx context.Context, url string) error {
	ret := m.Called(ctx, url)
	return ret.Error(0)
}

func (m *UploaderMock) OwnsURL(url string) bool {
	ret := m.Called(url)
	return ret.Bool(0)
}
