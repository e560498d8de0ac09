package port

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// TagRepository represents a tag repository implementation
type TagRepository interface {
	CreateMany(ctx context.Context, tags []string) (int, error)
	FindByName(ctx context.Context, name string) (*domain.Tag, error)
	FindByNames(ctx context.Context, names []string) (map[string]uuid.UUID, error)
	FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]domain.Tag, error)
	List(ctx context.Context, limit int, marker *string) ([]domain.Tag, *string, error)
}

// VideoTagRepository links tags to videos
type VideoTagRepository interface {
	ReplaceForVideo(ctx context.Context, videoID uuid.UUID, tagIDs []uuid.UUID) error
	DeleteByVideoID(ctx context.Context, videoID uuid.UUID) error
}

// TagService represents a tag service implementation
type TagService interface {
	CreateTags(ctx context.Context, names []string) error
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context, limit int, marker *string) ([]domain.Tag, *string, error)
	SetVideoTags(ctx context.Context, videoID uuid.UUID, names []string) ([]domain.Tag, error)
}
