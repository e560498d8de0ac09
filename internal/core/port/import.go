package port

import (
	"context"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// VideoSource lists videos on a remote host one page at a time
type VideoSource interface {
	ListVideos(ctx context.Context, page int) (videos []domain.ImportSource, hasMore bool, err error)
}

// ProgressFunc receives download progress
type ProgressFunc func(p domain.Progress)

// Downloader streams a remote file to local disk
type Downloader interface {
	Download(ctx context.Context, sourceURL string, destination string, resume bool, onProgress ProgressFunc) error
}

// DurationProber reads a media duration in seconds. A nil result means unknown.
type DurationProber interface {
	Probe(ctx context.Context, path string) (*int, error)
}

// ImportRecorder observes import outcomes
type ImportRecorder interface {
	RecordOutcome(system domain.SourceSystem, outcome domain.ImportOutcome)
	RecordTaskFailure(kind domain.TaskKind)
}

// ImportService drives bulk imports from a remote host or a local directory
type ImportService interface {
	DiscoverRemote(ctx context.Context, limit int) ([]domain.ImportSource, error)
	PlanRemote(ctx context.Context, sources []domain.ImportSource) ([]domain.PlannedImport, error)
	ImportRemote(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, resume bool) (*domain.ImportReport, error)
	DispatchRemote(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, resume bool, delay time.Duration, priority int) (queued int, skipped int, err error)
	DiscoverLocal(ctx context.Context, opts domain.LocalImportOptions) ([]domain.ImportSource, error)
	PlanLocal(ctx context.Context, sources []domain.ImportSource) ([]domain.PlannedImport, error)
	ImportLocal(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, opts domain.LocalImportOptions) (*domain.ImportReport, error)
	DispatchLocal(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, opts domain.LocalImportOptions, delay time.Duration, priority int) (queued int, skipped int, err error)
	RunTask(ctx context.Context, task domain.ImportTask) domain.ImportResult
	GenerateMetadata(ctx context.Context, sources []domain.ImportSource, dir string) (written int, skipped int, err error)
	ConvertFilenames(ctx context.Context, opts domain.ConvertOptions) (*domain.ConvertReport, error)
}
