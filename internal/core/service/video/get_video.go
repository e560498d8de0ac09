package video

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// GetVideo returns the video and, once completed, a presigned download url
func (v *videoService) GetVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Video, *string, error) {
	video, err := v.ownedVideo(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	if err := v.withTags(ctx, video); err != nil {
		return nil, nil, err
	}

	url, err := v.downloadURL(ctx, video)
	if err != nil {
		return nil, nil, err
	}
	return video, url, nil
}
