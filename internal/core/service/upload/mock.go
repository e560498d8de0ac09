package upload

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) InitiateUpload(ctx context.Context, req domain.InitiateUpload) (*domain.InitiatedUpload, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*domain.InitiatedUpload)
	return res, args.Error(1)
}

func (m *MockUploadService) AuthorizePart(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef, partNumber int) (string, error) {
	args := m.Called(ctx, ownerID, ref, partNumber)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) CompleteUpload(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef, parts []domain.UploadPart) (string, error) {
	args := m.Called(ctx, ownerID, ref, parts)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) AbortUpload(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef) error {
	args := m.Called(ctx, ownerID, ref)
	return args.Error(0)
}
