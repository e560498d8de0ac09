package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	core   *minio.Core
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	core := minio.Core{Client: client}
	return &Adapter{client: client, config: cfg, core: &core, logger: logger}, nil
}

// Location returns the bucket and region objects are written to
func (a *Adapter) Location() (string, string) {
	return a.config.BucketName, a.config.Region
}

// InitMultipartUpload opens a multipart session and returns its upload id
func (a *Adapter) InitMultipartUpload(ctx context.Context, key string, mimeType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: mimeType}

	uploadID, err := a.core.NewMultipartUpload(ctx, a.config.BucketName, key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to init multipart upload: %w", err)
	}
	return uploadID, nil
}

// PresignPart signs a PUT for one part of an open session
func (a *Adapter) PresignPart(ctx context.Context, key string, uploadID string, partNumber int) (string, time.Time, error) {
	reqParams := make(url.Values)
	reqParams.Set("partNumber", strconv.Itoa(partNumber))
	reqParams.Set("uploadId", uploadID)

	presignedURL, err := a.core.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, a.config.PartPresignedDuration, reqParams, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate presigned URL for part: %w", err)
	}

	expiresAt := time.Now().Add(a.config.PartPresignedDuration)
	return presignedURL.String(), expiresAt, nil
}

// CompleteMultipartUpload assembles the parts and returns the object location
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error) {
	sorted := make([]domain.UploadPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	completeParts := make([]minio.CompletePart, 0, len(sorted))
	for _, part := range sorted {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, "\""),
		})
	}

	info, err := a.core.CompleteMultipartUpload(ctx, a.config.BucketName, key, uploadID, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to complete multipart upload: %w", err)
	}

	if info.Location != "" {
		return info.Location, nil
	}
	return a.objectURL(key), nil
}

// AbortMultipartUpload discards an open session and its parts
func (a *Adapter) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	if err := a.core.AbortMultipartUpload(ctx, a.config.BucketName, key, uploadID); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchUpload" {
			return fmt.Errorf("failed to abort multipart upload: %w: %w", domain.ErrUploadSessionNotFound, err)
		}
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}

	a.logger.Info("multipart upload aborted",
		slog.String("key", key),
		slog.String("uploadID", uploadID))

	return nil
}

// PutObject streams a whole object, used by imports
func (a *Adapter) PutObject(ctx context.Context, key string, body io.Reader, size int64, mimeType string) error {
	_, err := a.client.PutObject(ctx, a.config.BucketName, key, body, size, minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, key string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Info("object deleted",
		slog.String("key", key),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// PresignedDownloadURL generates a time limited GET url
func (a *Adapter) PresignedDownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, a.config.DownloadURLDuration, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.DownloadURLDuration)
	return presignedURL.String(), expiresAt, nil
}

func (a *Adapter) objectURL(key string) string {
	u := a.client.EndpointURL()
	u.Path = "/" + a.config.BucketName + "/" + key
	return u.String()
}
