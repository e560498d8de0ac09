package download

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/stretchr/testify/mock"
)

// MockDownloader records calls. Tests use .Run to put bytes at the destination.
type MockDownloader struct {
	mock.Mock
}

func NewMockDownloader() *MockDownloader {
	return &MockDownloader{}
}

func (m *MockDownloader) Download(ctx context.Context, sourceURL string, destination string, resume bool, onProgress port.ProgressFunc) error {
	args := m.Called(ctx, sourceURL, destination, resume, onProgress)
	return args.Error(0)
}
