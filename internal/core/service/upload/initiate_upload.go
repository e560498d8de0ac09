package upload

import (
	"context"
	"fmt"
	"path"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/service/matcher"

	"github.com/google/uuid"
)

const (
	maxFilenameLength    = 255
	maxMimeTypeLength    = 100
	maxTitleLength       = 255
	maxDescriptionLength = 1000
)

// InitiateUpload opens a multipart session and records the video as uploading
func (u *uploadService) InitiateUpload(ctx context.Context, req domain.InitiateUpload) (*domain.InitiatedUpload, error) {
	if err := u.validateInitiate(req); err != nil {
		return nil, err
	}

	videoID := uuid.New()
	storageKey := path.Join("videos", req.OwnerID.String(), uuid.NewString(), storageFilename(req.Filename))

	uploadID, err := u.storage.InitMultipartUpload(ctx, storageKey, req.MimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadInitFailed, err)
	}

	bucket, region := u.storage.Location()
	video := domain.Video{
		ID:               videoID,
		OwnerID:          req.OwnerID,
		Title:            req.Title,
		Description:      req.Description,
		OriginalFilename: req.Filename,
		StorageKey:       storageKey,
		Bucket:           bucket,
		Region:           region,
		SizeBytes:        req.SizeBytes,
		MimeType:         req.MimeType,
		DurationSeconds:  req.DurationSeconds,
		Status:           domain.VideoStatusUploading,
		UploadID:         &uploadID,
	}

	if err := u.uow.VideoRepo().Create(ctx, video); err != nil {
		if abortErr := u.storage.AbortMultipartUpload(ctx, storageKey, uploadID); abortErr != nil {
			u.logger.Error("failed to abort orphan multipart upload", "key", storageKey, "error", abortErr)
		}
		return nil, fmt.Errorf("could not record upload: %w", err)
	}

	u.logger.Info("multipart upload initiated", "video_id", videoID, "key", storageKey, "size", req.SizeBytes)

	return &domain.InitiatedUpload{
		VideoID:    videoID,
		UploadID:   uploadID,
		StorageKey: storageKey,
	}, nil
}

func (u *uploadService) validateInitiate(req domain.InitiateUpload) error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %w: %s", domain.ErrValidation, domain.ErrMissingField, field)
	}

	switch {
	case req.OwnerID == uuid.Nil:
		return missing("owner")
	case req.Filename == "":
		return missing("filename")
	case req.MimeType == "":
		return missing("mimetype")
	case req.Title == "":
		return missing("title")
	}

	tooLong := func(field string, max int) error {
		return fmt.Errorf("%w: %s longer than %d characters", domain.ErrValidation, field, max)
	}
	switch {
	case len(req.Filename) > maxFilenameLength:
		return tooLong("filename", maxFilenameLength)
	case len(req.MimeType) > maxMimeTypeLength:
		return tooLong("mimetype", maxMimeTypeLength)
	case len(req.Title) > maxTitleLength:
		return tooLong("title", maxTitleLength)
	case len(req.Description) > maxDescriptionLength:
		return tooLong("description", maxDescriptionLength)
	}

	if req.SizeBytes < 1 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrFileSizeTooSmall)
	}
	if req.SizeBytes > u.cfg.MaxFileSize {
		return fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrFileSizeTooBig)
	}
	if req.DurationSeconds != nil && *req.DurationSeconds < 0 {
		return fmt.Errorf("%w: negative duration", domain.ErrValidation)
	}
	return nil
}

func storageFilename(filename string) string {
	name := matcher.SanitizeFilename(filename)
	if name == "" || name == "." || name == ".." {
		return "video"
	}
	return name
}
