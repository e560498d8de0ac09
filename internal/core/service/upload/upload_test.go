package upload_test

import (
	"io"
	"log/slog"

	"github.com/tjanuki/storage-manager/internal/adapters/repository"
	"github.com/tjanuki/storage-manager/internal/adapters/storage"
	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"
	"github.com/tjanuki/storage-manager/internal/core/service/upload"

	"github.com/google/uuid"
)

const tenGiB = int64(10737418240)

var defaultCfg = config.UploadConfig{
	MaxFileSize:   tenGiB,
	MaxPartNumber: 10000,
}

func newTestService() (port.UploadService, *repository.MockUnitOfWork, *storage.MockStorage) {
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return upload.NewUploadService(mockUow, mockStorage, defaultCfg, logger), mockUow, mockStorage
}

func uploadingVideo(owner uuid.UUID) *domain.Video {
	id := uuid.New()
	uploadID := "upload-" + id.String()
	return &domain.Video{
		ID:         id,
		OwnerID:    owner,
		Title:      "Talk",
		StorageKey: "videos/" + owner.String() + "/" + uuid.NewString() + "/talk.mp4",
		Status:     domain.VideoStatusUploading,
		UploadID:   &uploadID,
	}
}

func refOf(video *domain.Video) domain.UploadRef {
	return domain.UploadRef{
		VideoID:    video.ID,
		UploadID:   *video.UploadID,
		StorageKey: video.StorageKey,
	}
}
