package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"
	"github.com/tjanuki/storage-manager/internal/core/service/matcher"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const (
	defaultChunkSize = 3
	remoteMimeType   = "video/mp4"
	maxStemTitle     = 50
)

type importService struct {
	uow        port.UnitOfWork
	storage    port.VideoStorage
	source     port.VideoSource
	downloader port.Downloader
	prober     port.DurationProber
	publisher  port.TaskPublisher
	recorder   port.ImportRecorder
	cfg        config.ImportConfig
	transfers  *semaphore.Weighted
	logger     *slog.Logger
	now        func() time.Time
}

// NewImportService creates the import pipeline. source and publisher may be nil
// when only local imports run in-process.
func NewImportService(
	uow port.UnitOfWork,
	storage port.VideoStorage,
	source port.VideoSource,
	downloader port.Downloader,
	prober port.DurationProber,
	publisher port.TaskPublisher,
	recorder port.ImportRecorder,
	cfg config.ImportConfig,
	logger *slog.Logger,
) port.ImportService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = defaultChunkSize
	}
	return &importService{
		uow:        uow,
		storage:    storage,
		source:     source,
		downloader: downloader,
		prober:     prober,
		publisher:  publisher,
		recorder:   recorder,
		cfg:        cfg,
		transfers:  semaphore.NewWeighted(int64(cfg.Concurrency)),
		logger:     logger,
		now:        time.Now,
	}
}

// alreadyImported is the duplicate guard. Sources without a host id never collide.
func (s *importService) alreadyImported(ctx context.Context, src domain.ImportSource) (bool, error) {
	id := src.ProvenanceID()
	if id == "" {
		return false, nil
	}
	exists, err := s.uow.VideoRepo().ExistsBySourceID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrRetryable, err)
	}
	return exists, nil
}

// upload streams a local file to storage under key
func (s *importService) upload(ctx context.Context, localPath, key, mimeType string) (int64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	if err := s.storage.PutObject(ctx, key, f, info.Size(), mimeType); err != nil {
		return 0, fmt.Errorf("%w: %w: %w", domain.ErrRetryable, domain.ErrStorage, err)
	}
	return info.Size(), nil
}

// persist creates the completed record. Losing a race on the provenance id
// reports the item as skipped.
func (s *importService) persist(ctx context.Context, video domain.Video) (domain.ImportOutcome, error) {
	if err := s.uow.VideoRepo().Create(ctx, video); err != nil {
		if isAlreadyExists(err) {
			s.logger.Info("video imported concurrently, skipping", "source_id", video.Metadata.SourceID)
			return domain.OutcomeSkipped, nil
		}
		return domain.OutcomeFailed, fmt.Errorf("%w: %w", domain.ErrRetryable, err)
	}
	return domain.OutcomeImported, nil
}

func (s *importService) newVideo(ownerID uuid.UUID, title, description, filename, key string, size int64, mimeType string, duration *int, meta domain.VideoMetadata) domain.Video {
	bucket, region := s.storage.Location()
	now := s.now().UTC()
	meta.ImportedAt = &now
	return domain.Video{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Title:            title,
		Description:      description,
		OriginalFilename: filename,
		StorageKey:       key,
		Bucket:           bucket,
		Region:           region,
		SizeBytes:        size,
		MimeType:         mimeType,
		DurationSeconds:  duration,
		Status:           domain.VideoStatusCompleted,
		Metadata:         meta,
		UploadedAt:       &now,
	}
}

func (s *importService) record(system domain.SourceSystem, res domain.ImportResult) domain.ImportResult {
	if s.recorder != nil {
		s.recorder.RecordOutcome(system, res.Outcome)
	}
	return res
}

func objectKey(ownerID uuid.UUID, filename string) string {
	return path.Join("videos", ownerID.String(), filename)
}

// remoteFilename is "<sanitized title>_<host id>.mp4"
func remoteFilename(src domain.ImportSource) string {
	return matcher.SanitizeFilename(src.Title) + "_" + src.SourceID + ".mp4"
}

// metadataStem is the sidecar name without extension. Dots are not kept and
// the title part is cut to 50 bytes.
func metadataStem(title, sourceID string) string {
	stem := matcher.SanitizeFilename(strings.ReplaceAll(title, ".", "_"))
	if len(stem) > maxStemTitle {
		stem = stem[:maxStemTitle]
	}
	return stem + "_" + sourceID
}

// sourceSet tracks host ids already seen in a batch
type sourceSet map[string]struct{}

// add reports whether src is new. Sources without a host id are always new.
func (set sourceSet) add(src domain.ImportSource) bool {
	id := src.ProvenanceID()
	if id == "" {
		return true
	}
	if _, ok := set[id]; ok {
		return false
	}
	set[id] = struct{}{}
	return true
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

func fileStem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
