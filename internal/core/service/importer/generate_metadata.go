package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// GenerateMetadata writes one sidecar per remote source into dir, named
// "<title>_<id>.json". Existing files are left alone.
func (s *importService) GenerateMetadata(ctx context.Context, sources []domain.ImportSource, dir string) (int, int, error) {
	if dir == "" {
		dir = s.cfg.MetadataDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("creating metadata dir: %w", err)
	}

	written, skippedCount := 0, 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return written, skippedCount, err
		}

		p := filepath.Join(dir, metadataStem(src.Title, src.SourceID)+".json")
		if _, err := os.Stat(p); err == nil {
			skippedCount++
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return written, skippedCount, err
		}

		data, err := json.MarshalIndent(recordFor(src), "", "    ")
		if err != nil {
			return written, skippedCount, fmt.Errorf("encoding metadata for %s: %w", src.SourceID, err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return written, skippedCount, fmt.Errorf("writing %s: %w", p, err)
		}
		s.logger.Info("generated metadata file", "file", p, "source_id", src.SourceID)
		written++
	}
	return written, skippedCount, nil
}

func recordFor(src domain.ImportSource) domain.MetadataRecord {
	link, _ := src.BestLink()
	return domain.MetadataRecord{
		Title:        src.Title,
		SourceID:     src.SourceID,
		Description:  src.Description,
		Duration:     src.Duration,
		CreatedTime:  src.CreatedTime,
		ModifiedTime: src.ModifiedTime,
		DownloadURL:  link.URL,
		Size:         link.Size,
		Quality:      src.Quality(),
	}
}
