package video

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// ListVideos lists the owner's videos newest first, with their tags
func (v *videoService) ListVideos(ctx context.Context, ownerID uuid.UUID) ([]domain.Video, error) {
	videos, err := v.uow.VideoRepo().FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for i := range videos {
		if err := v.withTags(ctx, &videos[i]); err != nil {
			return nil, err
		}
	}
	return videos, nil
}
