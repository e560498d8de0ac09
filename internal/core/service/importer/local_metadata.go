package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// titleIDPattern matches "<Title>_<7 to 12 digit host id>.<ext>"
var titleIDPattern = regexp.MustCompile(`(?i)^(.+)_(\d{7,12})\.[a-z0-9]+$`)

// sidecarFile tolerates host ids written as JSON numbers
type sidecarFile struct {
	domain.MetadataRecord
	VimeoID any `json:"vimeo_id"`
}

// readSidecar loads a metadata JSON file. ok is false when the file is
// missing or carries no title.
func readSidecar(p string) (domain.MetadataRecord, bool, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.MetadataRecord{}, false, nil
		}
		return domain.MetadataRecord{}, false, err
	}

	var file sidecarFile
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.MetadataRecord{}, false, fmt.Errorf("decoding %s: %w", filepath.Base(p), err)
	}

	record := file.MetadataRecord
	switch id := file.VimeoID.(type) {
	case string:
		record.SourceID = id
	case float64:
		record.SourceID = strconv.FormatFloat(id, 'f', -1, 64)
	}
	record.Stem = fileStem(p)
	return record, strings.TrimSpace(record.Title) != "", nil
}

// sidecarPath is the metadata file for a video: same stem, .json, in dir
func sidecarPath(videoPath, dir string) string {
	if dir == "" {
		dir = filepath.Dir(videoPath)
	}
	return filepath.Join(dir, fileStem(videoPath)+".json")
}

// localSource resolves metadata for one file: sidecar first (only when
// opts.WithMetadata), then the title/id filename pattern, then the bare file name
func (s *importService) localSource(videoPath string, opts domain.LocalImportOptions) domain.ImportSource {
	src := domain.ImportSource{System: domain.SourceLocal, LocalPath: videoPath}
	filename := filepath.Base(videoPath)

	if opts.WithMetadata {
		if sidecarSource(&src, videoPath, opts.MetadataDir, s.logger) {
			return src
		}
	}

	if m := titleIDPattern.FindStringSubmatch(filename); m != nil {
		src.Title = strings.ReplaceAll(m[1], "_", " ")
		src.SourceID = m[2]
		return src
	}

	src.Title = fileStem(filename)
	return src
}

// sidecarSource fills src from the video's sidecar and reports whether one was usable
func sidecarSource(src *domain.ImportSource, videoPath, metadataDir string, logger *slog.Logger) bool {
	sidecar := sidecarPath(videoPath, metadataDir)
	record, ok, err := readSidecar(sidecar)
	if err != nil {
		logger.Warn("ignoring unreadable sidecar", "path", sidecar, "error", err)
	}
	if ok {
		src.SidecarPath = sidecar
		src.Title = record.Title
		src.SourceID = record.SourceID
		src.Description = record.Description
		src.Duration = record.Duration
		src.CreatedTime = record.CreatedTime
		src.ModifiedTime = record.ModifiedTime
		if record.Quality != "" || record.DownloadURL != "" {
			src.Links = []domain.DownloadLink{{URL: record.DownloadURL, Quality: record.Quality, Size: record.Size}}
		}
	}
	return ok
}
