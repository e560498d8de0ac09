package vimeo

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockVideoSource struct {
	mock.Mock
}

func NewMockVideoSource() *MockVideoSource {
	return &MockVideoSource{}
}

func (m *MockVideoSource) ListVideos(ctx context.Context, page int) ([]domain.ImportSource, bool, error) {
	args := m.Called(ctx, page)
	videos, _ := args.Get(0).([]domain.ImportSource)
	return videos, args.Bool(1), args.Error(2)
}
