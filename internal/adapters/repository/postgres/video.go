package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
)

type sqlVideoRepository struct {
	db SQLQuerier
}

// NewSqlVideoRepository creates sqlVideoRepository that implements port.VideoRepository
func NewSqlVideoRepository(db SQLQuerier) port.VideoRepository {
	return &sqlVideoRepository{db: db}
}

const videoColumns = `id, user_id, title, description, original_filename, s3_key, s3_bucket, s3_region,
	size, mime_type, duration, status, upload_id, metadata, uploaded_at, is_public, share_token, shared_at,
	created_at, updated_at`

// Create inserts a video. A second video carrying the same vimeo_id is rejected with domain.ErrAlreadyExists.
func (s *sqlVideoRepository) Create(ctx context.Context, video domain.Video) error {
	metadata, err := json.Marshal(video.Metadata)
	if err != nil {
		return fmt.Errorf("error encoding video metadata: %w", err)
	}

	query := `INSERT INTO videos (id, user_id, title, description, original_filename, s3_key, s3_bucket,
		s3_region, size, mime_type, duration, status, upload_id, metadata, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = s.db.ExecContext(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.OriginalFilename,
		video.StorageKey,
		video.Bucket,
		video.Region,
		video.SizeBytes,
		video.MimeType,
		video.DurationSeconds,
		video.Status,
		video.UploadID,
		string(metadata),
		video.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("video %s: %w", video.Metadata.ProvenanceID(), domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting video: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	return s.findOne(ctx, query, id)
}

// FindByShareToken finds a video by its public share token
func (s *sqlVideoRepository) FindByShareToken(ctx context.Context, token uuid.UUID) (*domain.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE share_token = $1`
	return s.findOne(ctx, query, token)
}

// FindByOwner lists an owner's videos, newest first
func (s *sqlVideoRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE user_id = $1 ORDER BY created_at DESC`
	return s.findMany(ctx, query, ownerID)
}

// FindStaleUploads finds uploads left open since before the given time
func (s *sqlVideoRepository) FindStaleUploads(ctx context.Context, before time.Time) ([]domain.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE status = 'uploading' AND updated_at < $1`
	return s.findMany(ctx, query, before)
}

// ExistsBySourceID is the duplicate guard lookup on metadata->>'vimeo_id'
func (s *sqlVideoRepository) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	if sourceID == "" {
		return false, nil
	}
	query := `SELECT EXISTS (SELECT 1 FROM videos WHERE metadata ->> '` + domain.ProvenanceKey + `' = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, sourceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking imported video: %w", err)
	}
	return exists, nil
}

// MarkCompleted closes the upload session and stamps uploaded_at
func (s *sqlVideoRepository) MarkCompleted(ctx context.Context, id uuid.UUID, uploadedAt time.Time) error {
	query := `UPDATE videos
              SET status = 'completed', upload_id = NULL, uploaded_at = $1, updated_at = now()
              WHERE id = $2`
	return s.execOne(ctx, query, uploadedAt, id)
}

// MarkFailed moves the video to failed and drops its upload session id
func (s *sqlVideoRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE videos SET status = 'failed', upload_id = NULL, updated_at = now() WHERE id = $1`
	return s.execOne(ctx, query, id)
}

// UpdateDetails updates title and description
func (s *sqlVideoRepository) UpdateDetails(ctx context.Context, id uuid.UUID, title, description string) error {
	query := `UPDATE videos SET title = $1, description = $2, updated_at = now() WHERE id = $3`
	return s.execOne(ctx, query, title, description, id)
}

// UpdateSharing stores the public flag, token and share timestamp
func (s *sqlVideoRepository) UpdateSharing(ctx context.Context, id uuid.UUID, isPublic bool, token *uuid.UUID, sharedAt *time.Time) error {
	query := `UPDATE videos SET is_public = $1, share_token = $2, shared_at = $3, updated_at = now() WHERE id = $4`
	return s.execOne(ctx, query, isPublic, token, sharedAt, id)
}

// Delete removes the row
func (s *sqlVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, `DELETE FROM videos WHERE id = $1`, id)
}

func (s *sqlVideoRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (s *sqlVideoRepository) findOne(ctx context.Context, query string, arg any) (*domain.Video, error) {
	row := s.db.QueryRowContext(ctx, query, arg)

	var dbVideo dbVideo
	if err := dbVideo.scan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, err
	}
	return dbVideo.ToDomain()
}

func (s *sqlVideoRepository) findMany(ctx context.Context, query string, args ...any) ([]domain.Video, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying videos: %w", err)
	}
	defer rows.Close()

	videos := make([]domain.Video, 0)
	for rows.Next() {
		var dbVideo dbVideo
		if err := dbVideo.scan(rows); err != nil {
			return nil, fmt.Errorf("error scanning video: %w", err)
		}
		video, err := dbVideo.ToDomain()
		if err != nil {
			return nil, err
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}
	return videos, nil
}

// dbVideo represents a videos row
type dbVideo struct {
	ID               uuid.UUID      `db:"id"`
	UserID           uuid.UUID      `db:"user_id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	OriginalFilename string         `db:"original_filename"`
	S3Key            string         `db:"s3_key"`
	S3Bucket         string         `db:"s3_bucket"`
	S3Region         string         `db:"s3_region"`
	Size             int64          `db:"size"`
	MimeType         string         `db:"mime_type"`
	Duration         sql.NullInt64  `db:"duration"`
	Status           string         `db:"status"`
	UploadID         sql.NullString `db:"upload_id"`
	Metadata         []byte         `db:"metadata"`
	UploadedAt       sql.NullTime   `db:"uploaded_at"`
	IsPublic         bool           `db:"is_public"`
	ShareToken       uuid.NullUUID  `db:"share_token"`
	SharedAt         sql.NullTime   `db:"shared_at"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (v *dbVideo) scan(row rowScanner) error {
	return row.Scan(
		&v.ID,
		&v.UserID,
		&v.Title,
		&v.Description,
		&v.OriginalFilename,
		&v.S3Key,
		&v.S3Bucket,
		&v.S3Region,
		&v.Size,
		&v.MimeType,
		&v.Duration,
		&v.Status,
		&v.UploadID,
		&v.Metadata,
		&v.UploadedAt,
		&v.IsPublic,
		&v.ShareToken,
		&v.SharedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
}

// ToDomain converts to domain.Video
func (v *dbVideo) ToDomain() (*domain.Video, error) {
	video := &domain.Video{
		ID:               v.ID,
		OwnerID:          v.UserID,
		Title:            v.Title,
		Description:      v.Description,
		OriginalFilename: v.OriginalFilename,
		StorageKey:       v.S3Key,
		Bucket:           v.S3Bucket,
		Region:           v.S3Region,
		SizeBytes:        v.Size,
		MimeType:         v.MimeType,
		Status:           domain.VideoStatus(v.Status),
		IsPublic:         v.IsPublic,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}

	if len(v.Metadata) > 0 {
		if err := json.Unmarshal(v.Metadata, &video.Metadata); err != nil {
			return nil, fmt.Errorf("error decoding video metadata: %w", err)
		}
	}
	if v.Duration.Valid {
		d := int(v.Duration.Int64)
		video.DurationSeconds = &d
	}
	if v.UploadID.Valid {
		video.UploadID = &v.UploadID.String
	}
	if v.UploadedAt.Valid {
		video.UploadedAt = &v.UploadedAt.Time
	}
	if v.ShareToken.Valid {
		video.ShareToken = &v.ShareToken.UUID
	}
	if v.SharedAt.Valid {
		video.SharedAt = &v.SharedAt.Time
	}
	return video, nil
}
