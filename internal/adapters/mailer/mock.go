package mailer

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockMailer struct {
	mock.Mock
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendShareEmail(ctx context.Context, mail domain.ShareEmail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}
