package upload

import (
	"context"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// CompleteUpload finalizes the multipart session.
// A storage failure discards the session, moves the video to failed and is
// still reported to the caller.
func (u *uploadService) CompleteUpload(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef, parts []domain.UploadPart) (string, error) {
	if err := u.validateParts(parts); err != nil {
		return "", err
	}

	video, err := u.ownedUpload(ctx, ownerID, ref)
	if err != nil {
		return "", err
	}

	location, err := u.storage.CompleteMultipartUpload(ctx, video.StorageKey, *video.UploadID, parts)
	if err != nil {
		if abortErr := u.storage.AbortMultipartUpload(ctx, video.StorageKey, *video.UploadID); abortErr != nil {
			u.logger.Warn("failed to discard rejected session", "video_id", video.ID, "error", abortErr)
		}
		if statusErr := u.uow.VideoRepo().MarkFailed(ctx, video.ID); statusErr != nil {
			u.logger.Error("failed to mark video as failed", "video_id", video.ID, "error", statusErr)
		}
		u.logger.Warn("multipart completion rejected", "video_id", video.ID, "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrUploadCompleteFailed, err)
	}

	if err := u.uow.VideoRepo().MarkCompleted(ctx, video.ID, u.now().UTC()); err != nil {
		return "", err
	}

	u.logger.Info("multipart upload completed", "video_id", video.ID, "parts", len(parts))
	return location, nil
}

func (u *uploadService) validateParts(parts []domain.UploadPart) error {
	if len(parts) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrNoParts)
	}

	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		if err := u.validatePartNumber(part.PartNumber); err != nil {
			return err
		}
		if part.ETag == "" {
			return fmt.Errorf("%w: %w: etag of part %d", domain.ErrValidation, domain.ErrMissingField, part.PartNumber)
		}
		if _, dup := seen[part.PartNumber]; dup {
			return fmt.Errorf("%w: %w: %d", domain.ErrValidation, domain.ErrDuplicatePart, part.PartNumber)
		}
		seen[part.PartNumber] = struct{}{}
	}
	return nil
}
