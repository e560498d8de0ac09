package postgres

import (
	"context"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlVideoTagRepository struct {
	db SQLQuerier
}

// NewSqlVideoTagRepository creates sqlVideoTagRepository
func NewSqlVideoTagRepository(db SQLQuerier) port.VideoTagRepository {
	return &sqlVideoTagRepository{db: db}
}

// ReplaceForVideo makes tagIDs the exact set of tags linked to the video
func (s *sqlVideoTagRepository) ReplaceForVideo(ctx context.Context, videoID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := s.DeleteByVideoID(ctx, videoID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		ids = append(ids, id.String())
	}

	query := `INSERT INTO video_tags (video_id, tag_id)
              SELECT $1::uuid, unnest($2::uuid[])
              ON CONFLICT (video_id, tag_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, videoID, pq.Array(ids)); err != nil {
		return fmt.Errorf("error inserting video tags: %w", err)
	}
	return nil
}

// DeleteByVideoID unlinks every tag from the video
func (s *sqlVideoTagRepository) DeleteByVideoID(ctx context.Context, videoID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM video_tags WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("error deleting video tags: %w", err)
	}
	return nil
}
