package upload

import (
	"context"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// AbortUpload discards the multipart session then deletes the video.
// The record is kept when storage refuses the abort.
func (u *uploadService) AbortUpload(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef) error {
	video, err := u.ownedUpload(ctx, ownerID, ref)
	if err != nil {
		return err
	}

	if err := u.storage.AbortMultipartUpload(ctx, video.StorageKey, *video.UploadID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUploadAbortFailed, err)
	}

	if err := u.uow.VideoRepo().Delete(ctx, video.ID); err != nil {
		return err
	}

	u.logger.Info("multipart upload aborted", "video_id", video.ID)
	return nil
}
