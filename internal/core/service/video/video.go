package video

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 1000
	maxRecipients        = 5
	maxSenderNameLength  = 100
	maxMessageLength     = 500
)

type videoService struct {
	uow      port.UnitOfWork
	storage  port.VideoStorage
	mailer   port.Mailer
	shareCfg config.ShareConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewVideoService creates a new video service
func NewVideoService(uow port.UnitOfWork, storage port.VideoStorage, mailer port.Mailer, shareCfg config.ShareConfig, logger *slog.Logger) port.VideoService {
	return &videoService{
		uow:      uow,
		storage:  storage,
		mailer:   mailer,
		shareCfg: shareCfg,
		logger:   logger,
		now:      time.Now,
	}
}

// ownedVideo loads a video: unknown ids are not found, foreign ones unauthorized
func (v *videoService) ownedVideo(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Video, error) {
	video, err := v.uow.VideoRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !video.IsOwnedBy(ownerID) {
		return nil, domain.ErrUnauthorized
	}
	return video, nil
}

func (v *videoService) withTags(ctx context.Context, video *domain.Video) error {
	tags, err := v.uow.TagRepo().FindByVideoID(ctx, video.ID)
	if err != nil {
		return err
	}
	video.Tags = tags
	return nil
}

// downloadURL presigns a GET for completed videos only
func (v *videoService) downloadURL(ctx context.Context, video *domain.Video) (*string, error) {
	if video.Status != domain.VideoStatusCompleted {
		return nil, nil
	}
	url, _, err := v.storage.PresignedDownloadURL(ctx, video.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return &url, nil
}

// publicVideo resolves a share token. Private or unfinished videos are not found.
func (v *videoService) publicVideo(ctx context.Context, token uuid.UUID) (*domain.Video, error) {
	video, err := v.uow.VideoRepo().FindByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !video.IsPublic || video.Status != domain.VideoStatusCompleted {
		return nil, domain.ErrVideoNotFound
	}
	return video, nil
}

func (v *videoService) shareURL(token uuid.UUID) string {
	return strings.TrimRight(v.shareCfg.PublicBaseURL, "/") + "/share/" + token.String()
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
