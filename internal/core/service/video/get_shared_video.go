package video

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// GetSharedVideo resolves a public share token
func (v *videoService) GetSharedVideo(ctx context.Context, token uuid.UUID) (*domain.Video, *string, error) {
	video, err := v.publicVideo(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	url, err := v.downloadURL(ctx, video)
	if err != nil {
		return nil, nil, err
	}
	return video, url, nil
}
