package tag

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

func (t *tagService) ListTags(ctx context.Context, limit int, marker *string) ([]domain.Tag, *string, error) {

	list, nextMarker, err := t.uow.TagRepo().List(ctx, limit, marker)
	if err != nil {
		return nil, nil, err
	}

	return list, nextMarker, nil
}
