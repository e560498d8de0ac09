package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
)

const defaultMaxPartNumber = 10000

type uploadService struct {
	uow     port.UnitOfWork
	storage port.VideoStorage
	cfg     config.UploadConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewUploadService creates a new upload service
func NewUploadService(uow port.UnitOfWork, storage port.VideoStorage, cfg config.UploadConfig, logger *slog.Logger) port.UploadService {
	if cfg.MaxPartNumber <= 0 {
		cfg.MaxPartNumber = defaultMaxPartNumber
	}
	return &uploadService{
		uow:     uow,
		storage: storage,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// ownedUpload loads the video behind ref and checks the caller owns it.
// Unknown videos are reported as unauthorized.
func (u *uploadService) ownedUpload(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef) (*domain.Video, error) {
	video, err := u.uow.VideoRepo().FindByID(ctx, ref.VideoID)
	if err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if !video.IsOwnedBy(ownerID) {
		return nil, domain.ErrUnauthorized
	}

	if video.Status != domain.VideoStatusUploading || video.UploadID == nil ||
		*video.UploadID != ref.UploadID || video.StorageKey != ref.StorageKey {
		return nil, domain.ErrUploadNotInProgress
	}
	return video, nil
}

func (u *uploadService) validatePartNumber(partNumber int) error {
	if partNumber < 1 || partNumber > u.cfg.MaxPartNumber {
		return fmt.Errorf("%w: %w: %d", domain.ErrValidation, domain.ErrInvalidPartNumber, partNumber)
	}
	return nil
}
