package video

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"
	"github.com/tjanuki/storage-manager/internal/core/service/tag"

	"github.com/google/uuid"
)

// UpdateVideo changes title and description. Tags are replaced when provided.
func (v *videoService) UpdateVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, update domain.VideoUpdate) (*domain.Video, error) {
	video, err := v.ownedVideo(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	title := video.Title
	if update.Title != nil {
		title = *update.Title
	}
	description := video.Description
	if update.Description != nil {
		description = *update.Description
	}

	if title == "" {
		return nil, validationErr("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, validationErr("title longer than %d characters", maxTitleLength)
	}
	if len(description) > maxDescriptionLength {
		return nil, validationErr("description longer than %d characters", maxDescriptionLength)
	}

	txErr := v.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.VideoRepo().UpdateDetails(ctx, video.ID, title, description); err != nil {
			return err
		}
		if update.Tags == nil {
			return nil
		}
		return tag.ReplaceVideoTags(ctx, uow, video.ID, update.Tags)
	})
	if txErr != nil {
		return nil, txErr
	}

	video.Title = title
	video.Description = description
	if err := v.withTags(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}
