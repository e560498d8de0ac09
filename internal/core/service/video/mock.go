package video

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockVideoService is a mock implementation of VideoService
type MockVideoService struct {
	mock.Mock
}

// NewMockVideoService creates a new MockVideoService
func NewMockVideoService() *MockVideoService {
	return &MockVideoService{}
}

func (m *MockVideoService) ListVideos(ctx context.Context, ownerID uuid.UUID) ([]domain.Video, error) {
	args := m.Called(ctx, ownerID)
	videos, _ := args.Get(0).([]domain.Video)
	return videos, args.Error(1)
}

func (m *MockVideoService) GetVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Video, *string, error) {
	args := m.Called(ctx, id, ownerID)
	video, _ := args.Get(0).(*domain.Video)
	url, _ := args.Get(1).(*string)
	return video, url, args.Error(2)
}

func (m *MockVideoService) UpdateVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, update domain.VideoUpdate) (*domain.Video, error) {
	args := m.Called(ctx, id, ownerID, update)
	video, _ := args.Get(0).(*domain.Video)
	return video, args.Error(1)
}

func (m *MockVideoService) DeleteVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockVideoService) ToggleSharing(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Video, error) {
	args := m.Called(ctx, id, ownerID)
	video, _ := args.Get(0).(*domain.Video)
	return video, args.Error(1)
}

func (m *MockVideoService) GetSharedVideo(ctx context.Context, token uuid.UUID) (*domain.Video, *string, error) {
	args := m.Called(ctx, token)
	video, _ := args.Get(0).(*domain.Video)
	url, _ := args.Get(1).(*string)
	return video, url, args.Error(2)
}

func (m *MockVideoService) ShareByEmail(ctx context.Context, token uuid.UUID, req domain.ShareEmailRequest) error {
	args := m.Called(ctx, token, req)
	return args.Error(0)
}
