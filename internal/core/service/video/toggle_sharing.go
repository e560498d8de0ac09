package video

import (
	"context"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// ToggleSharing flips the public flag. The first share issues a token that stays with the video.
func (v *videoService) ToggleSharing(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Video, error) {
	video, err := v.ownedVideo(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if video.Status != domain.VideoStatusCompleted {
		return nil, domain.ErrVideoNotReady
	}

	isPublic := !video.IsPublic
	token := video.ShareToken
	var sharedAt *time.Time
	if isPublic {
		if token == nil {
			issued := uuid.New()
			token = &issued
		}
		now := v.now().UTC()
		sharedAt = &now
	}

	if err := v.uow.VideoRepo().UpdateSharing(ctx, video.ID, isPublic, token, sharedAt); err != nil {
		return nil, err
	}

	video.IsPublic = isPublic
	video.ShareToken = token
	video.SharedAt = sharedAt

	v.logger.Info("video sharing toggled", "video_id", video.ID, "public", isPublic)
	return video, nil
}
