package tag

import (
	"context"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
)

type tagService struct {
	uow port.UnitOfWork
}

// NewTagService creates a new tag service
func NewTagService(uow port.UnitOfWork) port.TagService {
	return &tagService{uow: uow}
}

// Normalize lowercases and trims names, dropping blanks and duplicates while keeping order
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ReplaceVideoTags creates missing tags and makes names the video's exact tag set.
// It must run inside uow.Execute.
func ReplaceVideoTags(ctx context.Context, uow port.UnitOfWork, videoID uuid.UUID, names []string) error {
	normalized := Normalize(names)

	tagIDs := make([]uuid.UUID, 0, len(normalized))
	if len(normalized) > 0 {
		if _, err := uow.TagRepo().CreateMany(ctx, normalized); err != nil {
			return err
		}

		found, err := uow.TagRepo().FindByNames(ctx, normalized)
		if err != nil {
			return err
		}
		for _, name := range normalized {
			if id, ok := found[name]; ok {
				tagIDs = append(tagIDs, id)
			}
		}
	}

	return uow.VideoTagRepo().ReplaceForVideo(ctx, videoID, tagIDs)
}
