package upload_test

import (
	"context"
	"testing"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_CompleteUpload(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	parts := []domain.UploadPart{
		{PartNumber: 1, ETag: "\"etag-1\""},
		{PartNumber: 2, ETag: "\"etag-2\""},
	}

	t.Run("nominal", func(t *testing.T) {
		// Arrange
		service, mockUow, mockStorage := newTestService()
		video := uploadingVideo(owner)
		mockUow.GetVideoRepoMock().On("FindByID", ctx, video.ID).Return(video, nil)
		mockStorage.On("CompleteMultipartUpload", ctx, video.StorageKey, *video.UploadID, parts).
			Return("http://storage/videos/"+video.StorageKey, nil)
		mockUow.GetVideoRepoMock().On("MarkCompleted", ctx, video.ID, mock.AnythingOfType("time.Time")).Return(nil)

		// Act
		location, err := service.CompleteUpload(ctx, owner, refOf(video), parts)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "http://storage/videos/"+video.StorageKey, location)
		mockUow.GetVideoRepoMock().AssertExpectations(t)
		mockStorage.AssertExpectations(t)
	})

	t.Run("non owner leaves the video uploading", func(t *testing.T) {
		// Arrange
		service, mockUow, mockStorage := newTestService()
		video := uploadingVideo(owner)
		mockUow.GetVideoRepoMock().On("FindByID", ctx, video.ID).Return(video, nil)

		// Act
		_, err := service.CompleteUpload(ctx, uuid.New(), refOf(video), parts)

		// Assert
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, domain.VideoStatusUploading, video.Status)
		mockUow.GetVideoRepoMock().AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
		mockUow.GetVideoRepoMock().AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything)
		mockStorage.AssertNotCalled(t, "CompleteMultipartUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure discards the session and marks the video failed", func(t *testing.T) {
		// Arrange
		service, mockUow, mockStorage := newTestService()
		video := uploadingVideo(owner)
		mockUow.GetVideoRepoMock().On("FindByID", ctx, video.ID).Return(video, nil)
		mockStorage.On("CompleteMultipartUpload", ctx, video.StorageKey, *video.UploadID, parts).Return("", assert.AnError)
		mockStorage.On("AbortMultipartUpload", ctx, video.StorageKey, *video.UploadID).Return(nil)
		mockUow.GetVideoRepoMock().On("MarkFailed", ctx, video.ID).Return(nil)

		// Act
		_, err := service.CompleteUpload(ctx, owner, refOf(video), parts)

		// Assert
		require.ErrorIs(t, err, domain.ErrUploadCompleteFailed)
		mockStorage.AssertExpectations(t)
		mockUow.GetVideoRepoMock().AssertExpectations(t)
		mockUow.GetVideoRepoMock().AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid manifests", func(t *testing.T) {
		cases := map[string]struct {
			parts []domain.UploadPart
			want  error
		}{
			"empty":             {parts: nil, want: domain.ErrNoParts},
			"duplicate part":    {parts: []domain.UploadPart{{PartNumber: 1, ETag: "a"}, {PartNumber: 1, ETag: "b"}}, want: domain.ErrDuplicatePart},
			"part out of range": {parts: []domain.UploadPart{{PartNumber: 10001, ETag: "a"}}, want: domain.ErrInvalidPartNumber},
			"missing etag":      {parts: []domain.UploadPart{{PartNumber: 1}}, want: domain.ErrMissingField},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				// Arrange
				service, mockUow, _ := newTestService()
				video := uploadingVideo(owner)

				// Act
				_, err := service.CompleteUpload(ctx, owner, refOf(video), tc.parts)

				// Assert
				require.ErrorIs(t, err, domain.ErrValidation)
				require.ErrorIs(t, err, tc.want)
				mockUow.GetVideoRepoMock().AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("already completed video", func(t *testing.T) {
		// Arrange
		service, mockUow, _ := newTestService()
		video := uploadingVideo(owner)
		ref := refOf(video)
		video.Status = domain.VideoStatusCompleted
		video.UploadID = nil
		mockUow.GetVideoRepoMock().On("FindByID", ctx, video.ID).Return(video, nil)

		// Act
		_, err := service.CompleteUpload(ctx, owner, ref, parts)

		// Assert
		require.ErrorIs(t, err, domain.ErrUploadNotInProgress)
	})
}
