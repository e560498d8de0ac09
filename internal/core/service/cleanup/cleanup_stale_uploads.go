package cleanup

import (
	"context"
	"errors"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// CleanupStaleUploads aborts abandoned multipart sessions and moves their videos to failed.
// A video whose abort fails is left uploading so the next sweep retries it.
func (c *cleanupService) CleanupStaleUploads(ctx context.Context, now time.Time) (int, error) {

	videos, err := c.uow.VideoRepo().FindStaleUploads(ctx, now.Add(-c.staleAfter))
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, video := range videos {
		if video.UploadID != nil {
			abortErr := c.storage.AbortMultipartUpload(ctx, video.StorageKey, *video.UploadID)
			if abortErr != nil && !errors.Is(abortErr, domain.ErrUploadSessionNotFound) {
				c.logger.Error("failed to abort stale upload", "video_id", video.ID, "error", abortErr)
				continue
			}
		}

		if updateErr := c.uow.VideoRepo().MarkFailed(ctx, video.ID); updateErr != nil {
			c.logger.Error("failed to mark stale upload as failed", "video_id", video.ID, "error", updateErr)
			continue
		}
		cleaned++
	}

	c.logger.Info("stale uploads sweep completed", "found", len(videos), "cleaned", cleaned)
	return cleaned, nil
}
