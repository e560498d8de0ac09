package video

import (
	"context"
	"errors"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// DeleteVideo removes the stored bytes then the record. An open upload is
// aborted instead, a session storage no longer knows counts as gone.
func (v *videoService) DeleteVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	video, err := v.ownedVideo(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if video.Status == domain.VideoStatusUploading && video.UploadID != nil {
		err = v.storage.AbortMultipartUpload(ctx, video.StorageKey, *video.UploadID)
		if errors.Is(err, domain.ErrUploadSessionNotFound) {
			err = nil
		}
	} else {
		err = v.storage.DeleteObject(ctx, video.StorageKey)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	if err := v.uow.VideoRepo().Delete(ctx, video.ID); err != nil {
		return err
	}

	v.logger.Info("video deleted", "video_id", video.ID)
	return nil
}
