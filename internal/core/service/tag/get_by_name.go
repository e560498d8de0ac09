package tag

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

func (t *tagService) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	return t.uow.TagRepo().FindByName(ctx, name)
}
