package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DiscoverRemote walks every listing page, keeping the first entry per host
// id. A positive limit stops early.
func (s *importService) DiscoverRemote(ctx context.Context, limit int) ([]domain.ImportSource, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no remote source configured", domain.ErrRemoteSource)
	}

	var sources []domain.ImportSource
	seen := sourceSet{}
	for page := 1; ; page++ {
		videos, hasMore, err := s.source.ListVideos(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}
		for _, v := range videos {
			if seen.add(v) {
				sources = append(sources, v)
			}
		}

		if limit > 0 && len(sources) >= limit {
			return sources[:limit], nil
		}
		if !hasMore {
			return sources, nil
		}
	}
}

// PlanRemote is the dry-run view of a remote import
func (s *importService) PlanRemote(ctx context.Context, sources []domain.ImportSource) ([]domain.PlannedImport, error) {
	plan := make([]domain.PlannedImport, 0, len(sources))
	for _, src := range sources {
		exists, err := s.alreadyImported(ctx, src)
		if err != nil {
			return nil, err
		}
		link, _ := src.BestLink()
		plan = append(plan, domain.PlannedImport{
			Source:          src,
			Size:            link.Size,
			Quality:         src.Quality(),
			AlreadyImported: exists,
		})
	}
	return plan, nil
}

// ImportRemote runs sources in sequential chunks. Items inside a chunk run
// concurrently, bounded by the transfer semaphore. Repeated host ids are
// skipped so no two items share a download path.
func (s *importService) ImportRemote(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, resume bool) (*domain.ImportReport, error) {
	report := &domain.ImportReport{}

	seen := sourceSet{}
	unique := make([]domain.ImportSource, 0, len(sources))
	for _, src := range sources {
		if !seen.add(src) {
			s.logger.Info("duplicate source in batch", "source_id", src.SourceID, "title", src.Title)
			report.Add(s.record(domain.SourceVimeo, skipped(src.Title)))
			continue
		}
		unique = append(unique, src)
	}

	for _, chunk := range chunks(unique, s.cfg.ChunkSize) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		results := make([]domain.ImportResult, len(chunk))
		g, gctx := errgroup.WithContext(ctx)
		for i, src := range chunk {
			g.Go(func() error {
				results[i] = s.importRemote(gctx, ownerID, src, resume)
				return nil
			})
		}
		_ = g.Wait()

		for _, res := range results {
			report.Add(res)
		}
	}

	s.logger.Info("remote import finished", "imported", report.Imported, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

func (s *importService) importRemote(ctx context.Context, ownerID uuid.UUID, src domain.ImportSource, resume bool) domain.ImportResult {
	res := s.importRemoteSource(ctx, ownerID, src, resume)
	if res.Err != nil {
		s.logger.Error("remote import failed", "source_id", src.SourceID, "title", src.Title, "error", res.Err)
	}
	return s.record(domain.SourceVimeo, res)
}

func (s *importService) importRemoteSource(ctx context.Context, ownerID uuid.UUID, src domain.ImportSource, resume bool) domain.ImportResult {
	name := src.Title

	exists, err := s.alreadyImported(ctx, src)
	if err != nil {
		return failed(name, err)
	}
	if exists {
		s.logger.Info("video already imported", "source_id", src.SourceID)
		return skipped(name)
	}

	link, ok := src.BestLink()
	if !ok || link.URL == "" {
		return failed(name, fmt.Errorf("%s: %w", src.SourceID, domain.ErrNoDownloadLink))
	}

	if err := s.transfers.Acquire(ctx, 1); err != nil {
		return failed(name, fmt.Errorf("%w: %w", domain.ErrRetryable, err))
	}
	defer s.transfers.Release(1)

	filename := remoteFilename(src)
	localPath := filepath.Join(s.cfg.TempDir, filename)

	s.logger.Info("starting download", "source_id", src.SourceID, "title", src.Title, "size", link.Size)
	if err := s.downloader.Download(ctx, link.URL, localPath, resume, s.progressLogger(src.SourceID)); err != nil {
		return failed(name, fmt.Errorf("%w: %w", domain.ErrRetryable, err))
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove downloaded file", "path", localPath, "error", err)
		}
	}()

	key := objectKey(ownerID, filename)
	size, err := s.upload(ctx, localPath, key, remoteMimeType)
	if err != nil {
		return failed(name, err)
	}

	video := s.newVideo(ownerID, src.Title, src.Description, filename, key, size, remoteMimeType, src.Duration, domain.VideoMetadata{
		Source:           domain.SourceVimeo,
		SourceID:         src.SourceID,
		OriginalQuality:  src.Quality(),
		SourceCreatedAt:  src.CreatedTime,
		SourceModifiedAt: src.ModifiedTime,
	})

	outcome, err := s.persist(ctx, video)
	if err != nil {
		return failed(name, err)
	}
	if outcome == domain.OutcomeSkipped {
		return skipped(name)
	}

	s.logger.Info("video imported", "source_id", src.SourceID, "video_id", video.ID, "key", key)
	return domain.ImportResult{Name: name, VideoID: &video.ID, Outcome: domain.OutcomeImported}
}

// progressLogger logs every tenth of a download
func (s *importService) progressLogger(sourceID string) port.ProgressFunc {
	next := 10.0
	return func(p domain.Progress) {
		if p.Percent < next {
			return
		}
		for next <= p.Percent {
			next += 10
		}
		s.logger.Debug("download progress", "source_id", sourceID, "percent", int(p.Percent), "bytes", p.Bytes, "total", p.Total)
	}
}
