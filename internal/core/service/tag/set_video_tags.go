package tag

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
)

// SetVideoTags replaces the tags of a video and returns the new set
func (t *tagService) SetVideoTags(ctx context.Context, videoID uuid.UUID, names []string) ([]domain.Tag, error) {
	err := t.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		return ReplaceVideoTags(ctx, uow, videoID, names)
	})
	if err != nil {
		return nil, err
	}

	return t.uow.TagRepo().FindByVideoID(ctx, videoID)
}
