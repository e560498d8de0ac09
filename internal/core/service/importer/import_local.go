package importer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/service/matcher"

	"github.com/google/uuid"
)

const defaultLocalPattern = "*.mp4"

// DiscoverLocal lists regular files in opts.Dir matching opts.Pattern, sorted by name
func (s *importService) DiscoverLocal(ctx context.Context, opts domain.LocalImportOptions) ([]domain.ImportSource, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = defaultLocalPattern
	}

	paths, err := filepath.Glob(filepath.Join(opts.Dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %w", domain.ErrValidation, pattern, err)
	}
	sort.Strings(paths)

	sources := make([]domain.ImportSource, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		sources = append(sources, s.localSource(p, opts))
	}
	return sources, nil
}

// PlanLocal is the dry-run view of a local import
func (s *importService) PlanLocal(ctx context.Context, sources []domain.ImportSource) ([]domain.PlannedImport, error) {
	plan := make([]domain.PlannedImport, 0, len(sources))
	for _, src := range sources {
		exists, err := s.alreadyImported(ctx, src)
		if err != nil {
			return nil, err
		}
		var size int64
		if info, err := os.Stat(src.LocalPath); err == nil {
			size = info.Size()
		}
		plan = append(plan, domain.PlannedImport{
			Source:          src,
			Size:            size,
			Quality:         src.Quality(),
			AlreadyImported: exists,
		})
	}
	return plan, nil
}

// ImportLocal uploads files one at a time in chunk order
func (s *importService) ImportLocal(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, opts domain.LocalImportOptions) (*domain.ImportReport, error) {
	report := &domain.ImportReport{}
	for _, chunk := range chunks(sources, s.cfg.ChunkSize) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for _, src := range chunk {
			report.Add(s.importLocal(ctx, ownerID, src, opts.MoveProcessed, s.processedDir(opts.ProcessedDir)))
		}
	}

	s.logger.Info("local import finished", "imported", report.Imported, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

func (s *importService) importLocal(ctx context.Context, ownerID uuid.UUID, src domain.ImportSource, move bool, processedDir string) domain.ImportResult {
	res := s.importLocalSource(ctx, ownerID, src, move, processedDir)
	if res.Err != nil {
		s.logger.Error("local import failed", "file", res.Name, "error", res.Err)
	}
	return s.record(domain.SourceLocal, res)
}

func (s *importService) importLocalSource(ctx context.Context, ownerID uuid.UUID, src domain.ImportSource, move bool, processedDir string) domain.ImportResult {
	filename := filepath.Base(src.LocalPath)

	exists, err := s.alreadyImported(ctx, src)
	if err != nil {
		return failed(filename, err)
	}
	if exists {
		s.logger.Info("video already imported", "file", filename, "source_id", src.SourceID)
		return s.afterLocal(src, move, processedDir, skipped(filename))
	}

	duration := src.Duration
	if duration == nil && s.prober != nil {
		d, err := s.prober.Probe(ctx, src.LocalPath)
		if err != nil {
			s.logger.Warn("could not probe duration", "file", filename, "error", err)
		}
		duration = d
	}

	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = remoteMimeType
	}

	key := objectKey(ownerID, matcher.SanitizeFilename(filename))
	size, err := s.withTransfer(ctx, func() (int64, error) {
		return s.upload(ctx, src.LocalPath, key, mimeType)
	})
	if err != nil {
		return failed(filename, err)
	}

	meta := domain.VideoMetadata{
		Source:           domain.SourceLocal,
		SourceID:         src.SourceID,
		SourceCreatedAt:  src.CreatedTime,
		SourceModifiedAt: src.ModifiedTime,
		Extra:            map[string]any{"original_path": src.LocalPath},
	}
	if link, ok := src.BestLink(); ok {
		meta.OriginalQuality = link.Quality
	}

	video := s.newVideo(ownerID, src.Title, src.Description, filename, key, size, mimeType, duration, meta)
	outcome, err := s.persist(ctx, video)
	if err != nil {
		return failed(filename, err)
	}
	if outcome == domain.OutcomeSkipped {
		return s.afterLocal(src, move, processedDir, skipped(filename))
	}

	s.logger.Info("local video imported", "file", filename, "video_id", video.ID, "key", key)
	return s.afterLocal(src, move, processedDir, domain.ImportResult{Name: filename, VideoID: &video.ID, Outcome: domain.OutcomeImported})
}

// afterLocal moves the file and its sidecar to processedDir when asked
func (s *importService) afterLocal(src domain.ImportSource, move bool, processedDir string, res domain.ImportResult) domain.ImportResult {
	if move {
		s.moveToProcessed(src, processedDir)
	}
	return res
}

// moveToProcessed only logs a failure, the import itself already happened
func (s *importService) moveToProcessed(src domain.ImportSource, processedDir string) {
	if err := moveProcessed(src, processedDir); err != nil {
		s.logger.Error("failed to move file to processed", "file", src.LocalPath, "error", err)
		return
	}
	s.logger.Info("moved file to processed", "file", src.LocalPath, "dir", processedDir)
}

func (s *importService) withTransfer(ctx context.Context, fn func() (int64, error)) (int64, error) {
	if err := s.transfers.Acquire(ctx, 1); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrRetryable, err)
	}
	defer s.transfers.Release(1)
	return fn()
}

func (s *importService) processedDir(dir string) string {
	if dir != "" {
		return dir
	}
	return s.cfg.ProcessedDir
}

func moveProcessed(src domain.ImportSource, processedDir string) error {
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}

	for _, p := range []string{src.LocalPath, src.SidecarPath} {
		if p == "" {
			continue
		}
		err := os.Rename(p, filepath.Join(processedDir, filepath.Base(p)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
