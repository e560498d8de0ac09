package eventbroker

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, task domain.ImportTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
