package storage

import (
	"context"
	"io"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
	Bucket string
	Region string
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Bucket: "videos", Region: "us-east-1"}
}

func (m *MockStorage) InitMultipartUpload(ctx context.Context, key string, mimeType string) (string, error) {
	args := m.Called(ctx, key, mimeType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) PresignPart(ctx context.Context, key string, uploadID string, partNumber int) (string, time.Time, error) {
	args := m.Called(ctx, key, uploadID, partNumber)
	expiresAt, _ := args.Get(1).(time.Time)
	return args.String(0), expiresAt, args.Error(2)
}

func (m *MockStorage) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error) {
	args := m.Called(ctx, key, uploadID, parts)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	args := m.Called(ctx, key, uploadID)
	return args.Error(0)
}

func (m *MockStorage) PutObject(ctx context.Context, key string, body io.Reader, size int64, mimeType string) error {
	args := m.Called(ctx, key, body, size, mimeType)
	return args.Error(0)
}

func (m *MockStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) PresignedDownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	args := m.Called(ctx, key)
	expiresAt, _ := args.Get(1).(time.Time)
	return args.String(0), expiresAt, args.Error(2)
}

func (m *MockStorage) Location() (string, string) {
	return m.Bucket, m.Region
}
