package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlTagRepository struct {
	db SQLQuerier
}

// NewSqlTagRepository creates sqlTagRepository that implements port.TagRepository
func NewSqlTagRepository(db SQLQuerier) port.TagRepository {
	return &sqlTagRepository{
		db: db,
	}
}

// CreateMany creates the tags that do not exist yet and returns how many were inserted
func (s *sqlTagRepository) CreateMany(ctx context.Context, tags []string) (int, error) {
	names := normalizeTagNames(tags)
	if len(names) == 0 {
		return 0, nil
	}

	query := `INSERT INTO tags (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, pq.Array(names))
	if err != nil {
		return 0, fmt.Errorf("error inserting tags: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

// FindByName finds a tag by name
func (s *sqlTagRepository) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	query := `SELECT id, name, created_at FROM tags WHERE name = LOWER($1)`

	var tagDB dbTag
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)).Scan(
		&tagDB.ID,
		&tagDB.Name,
		&tagDB.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}

	return tagDB.ToDomain(), nil
}

// FindByNames maps lowercased names to ids for the tags that exist
func (s *sqlTagRepository) FindByNames(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID)
	normalized := normalizeTagNames(names)
	if len(normalized) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tags WHERE name = ANY($1)`, pq.Array(normalized))
	if err != nil {
		return nil, fmt.Errorf("error querying tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("error scanning tag: %w", err)
		}
		result[name] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return result, nil
}

// FindByVideoID lists the tags attached to a video, sorted by name
func (s *sqlTagRepository) FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]domain.Tag, error) {
	query := `SELECT t.id, t.name, t.created_at
              FROM tags t
              JOIN video_tags vt ON vt.tag_id = t.id
              WHERE vt.video_id = $1
              ORDER BY t.name ASC`

	rows, err := s.db.QueryContext(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("error querying video tags: %w", err)
	}
	defer rows.Close()

	tags := make([]domain.Tag, 0)
	for rows.Next() {
		var tagDB dbTag
		if err := rows.Scan(&tagDB.ID, &tagDB.Name, &tagDB.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning tag: %w", err)
		}
		tags = append(tags, *tagDB.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

// List retrieves tags with cursor-based pagination sorted by name
func (s *sqlTagRepository) List(ctx context.Context, limit int, marker *string) ([]domain.Tag, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	after := ""
	if marker != nil {
		after = strings.ToLower(*marker)
	}

	query := `SELECT id, name, created_at FROM tags WHERE name > $1 ORDER BY name ASC LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, after, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying tags: %w", err)
	}
	defer rows.Close()

	tags := make([]domain.Tag, 0, limit)
	for rows.Next() {
		var tagDB dbTag
		if err := rows.Scan(&tagDB.ID, &tagDB.Name, &tagDB.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("error scanning tag: %w", err)
		}
		tags = append(tags, *tagDB.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating tags: %w", err)
	}

	var nextMarker *string
	if len(tags) > limit {
		tags = tags[:limit]
		last := tags[limit-1].Name
		nextMarker = &last
	}
	return tags, nextMarker, nil
}

func normalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// dbTag represents a tags row
type dbTag struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// ToDomain converts to domain.Tag
func (t *dbTag) ToDomain() *domain.Tag {
	return &domain.Tag{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}
