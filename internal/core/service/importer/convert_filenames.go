package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/service/matcher"
)

var defaultVideoExtensions = []string{"mp4", "mov", "avi"}

// ConvertFilenames renames downloaded videos to the stem of the sidecar they
// match, so a later local import can pick the sidecar up
func (s *importService) ConvertFilenames(ctx context.Context, opts domain.ConvertOptions) (*domain.ConvertReport, error) {
	records, err := loadSidecars(opts.MetadataDir)
	if err != nil {
		return nil, err
	}
	idx := matcher.BuildIndex(records)
	s.logger.Info("metadata loaded", "files", len(records), "keys", idx.Len())

	videos, err := listVideos(opts.VideoDir, opts.Extensions)
	if err != nil {
		return nil, err
	}

	target := opts.OutputDir
	if target == "" {
		target = opts.VideoDir
	} else if !opts.DryRun {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	report := &domain.ConvertReport{}
	for _, videoPath := range videos {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		base := filepath.Base(videoPath)
		m, ok := matcher.MatchFilename(base, idx)
		if !ok {
			report.Unmatched = append(report.Unmatched, base)
			report.Results = append(report.Results, domain.RenameResult{From: base})
			continue
		}
		if m.Strategy == matcher.StrategyFuzzy {
			s.logger.Info("fuzzy match", "file", base, "title", m.Record.Title, "score", m.Score)
		}

		newName := m.Record.Stem + filepath.Ext(base)
		newPath := filepath.Join(target, newName)
		res := domain.RenameResult{From: base, To: newName, Matched: true}

		switch {
		case opts.DryRun:
			report.Renamed++
		case newPath == videoPath:
			res.Skipped = true
			report.Skipped = append(report.Skipped, base)
		case exists(newPath):
			res.Skipped = true
			report.Skipped = append(report.Skipped, base)
		default:
			if err := os.Rename(videoPath, newPath); err != nil {
				res.Err = err
				report.Failed = append(report.Failed, base)
			} else {
				report.Renamed++
			}
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// loadSidecars reads every *.json in dir that carries a title and a host id
func loadSidecars(dir string) ([]domain.MetadataRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	records := make([]domain.MetadataRecord, 0, len(paths))
	for _, p := range paths {
		record, ok, err := readSidecar(p)
		if err != nil || !ok || record.SourceID == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func listVideos(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = defaultVideoExtensions
	}

	var paths []string
	for _, ext := range extensions {
		found, err := filepath.Glob(filepath.Join(dir, "*."+strings.TrimPrefix(ext, ".")))
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	sort.Strings(paths)
	return paths, nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
