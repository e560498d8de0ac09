package upload

import (
	"context"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// AuthorizePart returns a presigned url for one part. The video is not modified.
func (u *uploadService) AuthorizePart(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef, partNumber int) (string, error) {
	if err := u.validatePartNumber(partNumber); err != nil {
		return "", err
	}

	video, err := u.ownedUpload(ctx, ownerID, ref)
	if err != nil {
		return "", err
	}

	url, _, err := u.storage.PresignPart(ctx, video.StorageKey, *video.UploadID, partNumber)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return url, nil
}
