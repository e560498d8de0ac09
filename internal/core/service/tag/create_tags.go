package tag

import (
	"context"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// CreateTags creates tags by batch, existing ones are left untouched
func (t *tagService) CreateTags(ctx context.Context, tags []string) error {
	normalized := Normalize(tags)
	if len(normalized) == 0 {
		return fmt.Errorf("%w: %w: tags", domain.ErrValidation, domain.ErrMissingField)
	}

	_, err := t.uow.TagRepo().CreateMany(ctx, normalized)
	if err != nil {
		return err
	}

	return nil
}
