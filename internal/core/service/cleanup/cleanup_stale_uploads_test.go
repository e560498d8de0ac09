package cleanup_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tjanuki/storage-manager/internal/adapters/repository"
	"github.com/tjanuki/storage-manager/internal/adapters/storage"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/service/cleanup"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staleAfter = 24 * time.Hour

func staleVideo() domain.Video {
	uploadID := "upload-" + uuid.NewString()
	return domain.Video{
		ID:         uuid.New(),
		StorageKey: "videos/owner/" + uuid.NewString() + "/talk.mp4",
		Status:     domain.VideoStatusUploading,
		UploadID:   &uploadID,
	}
}

func TestCleanupService_CleanupStaleUploads(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Now()
	cutoff := now.Add(-staleAfter)

	t.Run("nothing stale", func(t *testing.T) {
		// Arrange
		mockUow := repository.NewMockUnitOfWork()
		mockStorage := storage.NewMockStorage()
		service := cleanup.NewCleanupService(mockUow, mockStorage, staleAfter, logger)
		mockUow.GetVideoRepoMock().On("FindStaleUploads", ctx, cutoff).Return([]domain.Video{}, nil)

		// Act
		cleaned, err := service.CleanupStaleUploads(ctx, now)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, cleaned)
		mockUow.GetVideoRepoMock().AssertExpectations(t)
	})

	t.Run("aborts sessions and marks videos failed", func(t *testing.T) {
		// Arrange
		mockUow := repository.NewMockUnitOfWork()
		mockStorage := storage.NewMockStorage()
		service := cleanup.NewCleanupService(mockUow, mockStorage, staleAfter, logger)
		first, second := staleVideo(), staleVideo()

		mockUow.GetVideoRepoMock().On("FindStaleUploads", ctx, cutoff).Return([]domain.Video{first, second}, nil)
		mockStorage.On("AbortMultipartUpload", ctx, first.StorageKey, *first.UploadID).Return(nil)
		mockStorage.On("AbortMultipartUpload", ctx, second.StorageKey, *second.UploadID).Return(nil)
		mockUow.GetVideoRepoMock().On("MarkFailed", ctx, first.ID).Return(nil)
		mockUow.GetVideoRepoMock().On("MarkFailed", ctx, second.ID).Return(nil)

		// Act
		cleaned, err := service.CleanupStaleUploads(ctx, now)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, cleaned)
		mockStorage.AssertExpectations(t)
		mockUow.GetVideoRepoMock().AssertExpectations(t)
	})

	t.Run("abort failure leaves the video for the next sweep", func(t *testing.T) {
		// Arrange
		mockUow := repository.NewMockUnitOfWork()
		mockStorage := storage.NewMockStorage()
		service := cleanup.NewCleanupService(mockUow, mockStorage, staleAfter, logger)
		broken, ok := staleVideo(), staleVideo()

		mockUow.GetVideoRepoMock().On("FindStaleUploads", ctx, cutoff).Return([]domain.Video{broken, ok}, nil)
		mockStorage.On("AbortMultipartUpload", ctx, broken.StorageKey, *broken.UploadID).Return(assert.AnError)
		mockStorage.On("AbortMultipartUpload", ctx, ok.StorageKey, *ok.UploadID).Return(nil)
		mockUow.GetVideoRepoMock().On("MarkFailed", ctx, ok.ID).Return(nil)

		// Act
		cleaned, err := service.CleanupStaleUploads(ctx, now)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, cleaned)
		mockUow.GetVideoRepoMock().AssertNotCalled(t, "MarkFailed", ctx, broken.ID)
	})

	t.Run("session already gone from storage is still marked failed", func(t *testing.T) {
		// Arrange
		mockUow := repository.NewMockUnitOfWork()
		mockStorage := storage.NewMockStorage()
		service := cleanup.NewCleanupService(mockUow, mockStorage, staleAfter, logger)
		gone := staleVideo()

		mockUow.GetVideoRepoMock().On("FindStaleUploads", ctx, cutoff).Return([]domain.Video{gone}, nil)
		mockStorage.On("AbortMultipartUpload", ctx, gone.StorageKey, *gone.UploadID).
			Return(fmt.Errorf("abort: %w", domain.ErrUploadSessionNotFound))
		mockUow.GetVideoRepoMock().On("MarkFailed", ctx, gone.ID).Return(nil)

		// Act
		cleaned, err := service.CleanupStaleUploads(ctx, now)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, cleaned)
		mockUow.GetVideoRepoMock().AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		// Arrange
		mockUow := repository.NewMockUnitOfWork()
		mockStorage := storage.NewMockStorage()
		service := cleanup.NewCleanupService(mockUow, mockStorage, staleAfter, logger)
		mockUow.GetVideoRepoMock().On("FindStaleUploads", ctx, cutoff).Return(nil, assert.AnError)

		// Act
		_, err := service.CleanupStaleUploads(ctx, now)

		// Assert
		require.ErrorIs(t, err, assert.AnError)
	})
}
