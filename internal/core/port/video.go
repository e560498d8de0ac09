package port

import (
	"context"
	"io"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// VideoRepository is an interface to define video repository interactions
type VideoRepository interface {
	Create(ctx context.Context, video domain.Video) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Video, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Video, error)
	FindByShareToken(ctx context.Context, token uuid.UUID) (*domain.Video, error)
	ExistsBySourceID(ctx context.Context, sourceID string) (bool, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, uploadedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	UpdateDetails(ctx context.Context, id uuid.UUID, title, description string) error
	UpdateSharing(ctx context.Context, id uuid.UUID, isPublic bool, token *uuid.UUID, sharedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindStaleUploads(ctx context.Context, before time.Time) ([]domain.Video, error)
}

// VideoStorage is an interface to define object storage interactions
type VideoStorage interface {
	InitMultipartUpload(ctx context.Context, key string, mimeType string) (string, error)
	PresignPart(ctx context.Context, key string, uploadID string, partNumber int) (string, time.Time, error)
	CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error)
	AbortMultipartUpload(ctx context.Context, key string, uploadID string) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, mimeType string) error
	DeleteObject(ctx context.Context, key string) error
	PresignedDownloadURL(ctx context.Context, key string) (string, time.Time, error)
	Location() (bucket string, region string)
}

// UploadService drives the client side multipart upload protocol
type UploadService interface {
	InitiateUpload(ctx context.Context, req domain.InitiateUpload) (*domain.InitiatedUpload, error)
	AuthorizePart(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef, partNumber int) (string, error)
	CompleteUpload(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef, parts []domain.UploadPart) (string, error)
	AbortUpload(ctx context.Context, ownerID uuid.UUID, ref domain.UploadRef) error
}

// VideoService manages stored videos and public sharing
type VideoService interface {
	ListVideos(ctx context.Context, ownerID uuid.UUID) ([]domain.Video, error)
	GetVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Video, *string, error)
	UpdateVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, update domain.VideoUpdate) (*domain.Video, error)
	DeleteVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	ToggleSharing(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Video, error)
	GetSharedVideo(ctx context.Context, token uuid.UUID) (*domain.Video, *string, error)
	ShareByEmail(ctx context.Context, token uuid.UUID, req domain.ShareEmailRequest) error
}

// Mailer delivers outgoing email
type Mailer interface {
	SendShareEmail(ctx context.Context, mail domain.ShareEmail) error
}
