package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadLink is one downloadable rendition offered by the remote host
type DownloadLink struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Size    int64  `json:"size"`
}

// ImportSource is a candidate to import, remote entry or local file
type ImportSource struct {
	System       SourceSystem   `json:"system"`
	SourceID     string         `json:"source_id,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Duration     *int           `json:"duration,omitempty"`
	CreatedTime  string         `json:"created_time,omitempty"`
	ModifiedTime string         `json:"modified_time,omitempty"`
	Links        []DownloadLink `json:"links,omitempty"`
	LocalPath    string         `json:"local_path,omitempty"`
	SidecarPath  string         `json:"sidecar_path,omitempty"`
}

// ProvenanceID is the duplicate guard key this source will be stored under
func (s ImportSource) ProvenanceID() string {
	return VideoMetadata{Source: s.System, SourceID: s.SourceID}.ProvenanceID()
}

// BestLink returns the largest rendition. Missing sizes count as zero and
// the first of equally sized links wins.
func (s ImportSource) BestLink() (DownloadLink, bool) {
	if len(s.Links) == 0 {
		return DownloadLink{}, false
	}
	best := s.Links[0]
	for _, l := range s.Links[1:] {
		if l.Size > best.Size {
			best = l
		}
	}
	return best, true
}

// Quality returns the nominal quality label of the best link
func (s ImportSource) Quality() string {
	if l, ok := s.BestLink(); ok && l.Quality != "" {
		return l.Quality
	}
	return "source"
}

// MetadataRecord is authoritative descriptive data used to name imported files
type MetadataRecord struct {
	Title        string `json:"title"`
	SourceID     string `json:"vimeo_id"`
	Description  string `json:"description,omitempty"`
	Duration     *int   `json:"duration,omitempty"`
	CreatedTime  string `json:"created_at_vimeo,omitempty"`
	ModifiedTime string `json:"modified_at_vimeo,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Quality      string `json:"quality,omitempty"`
	// Stem is the sidecar file name without extension, never serialized
	Stem string `json:"-"`
}

// ImportOutcome is the result of one item in a batch
type ImportOutcome string

const (
	OutcomeImported ImportOutcome = "imported"
	OutcomeSkipped  ImportOutcome = "skipped"
	OutcomeFailed   ImportOutcome = "failed"
)

// ImportResult describes what happened to a single source
type ImportResult struct {
	Name    string
	VideoID *uuid.UUID
	Outcome ImportOutcome
	Err     error
}

// ImportReport aggregates a batch run
type ImportReport struct {
	Imported int
	Skipped  int
	Failed   int
	Results  []ImportResult
}

// Add records one item result
func (r *ImportReport) Add(res ImportResult) {
	switch res.Outcome {
	case OutcomeImported:
		r.Imported++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	r.Results = append(r.Results, res)
}

// FailedNames lists the items that failed
func (r *ImportReport) FailedNames() []string {
	var names []string
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			names = append(names, res.Name)
		}
	}
	return names
}

// TaskKind selects the pipeline a queued task runs
type TaskKind string

const (
	TaskImportRemote TaskKind = "import_remote"
	TaskImportLocal  TaskKind = "import_local"
)

// ImportTask is the queued unit of work. Retry and timeout limits travel with it.
type ImportTask struct {
	ID            uuid.UUID     `json:"id"`
	Kind          TaskKind      `json:"kind"`
	OwnerID       uuid.UUID     `json:"owner_id"`
	Source        ImportSource  `json:"source"`
	Resume        bool          `json:"resume"`
	MoveProcessed bool          `json:"move_processed"`
	ProcessedDir  string        `json:"processed_dir,omitempty"`
	Priority      int           `json:"priority"`
	NotBefore     time.Time     `json:"not_before"`
	Timeout       time.Duration `json:"timeout"`
	MaxTries      int           `json:"max_tries"`
	MaxExceptions int           `json:"max_exceptions"`
}

// DedupKey identifies the task for broker side de-duplication
func (t ImportTask) DedupKey() string {
	if t.Source.SourceID != "" {
		return string(t.Source.System) + "-" + t.Source.SourceID
	}
	return string(t.Source.System) + "-" + t.Source.LocalPath
}

// PlannedImport is a dry-run row
type PlannedImport struct {
	Source          ImportSource
	Size            int64
	Quality         string
	AlreadyImported bool
}

// Progress is reported while streaming a remote file. Bytes and Total include
// anything already on disk from an earlier attempt.
type Progress struct {
	Percent float64
	Bytes   int64
	Total   int64
}

// LocalImportOptions configures a local directory import
type LocalImportOptions struct {
	Dir     string
	Pattern string
	// WithMetadata reads a JSON sidecar per video, from MetadataDir or
	// next to the video when MetadataDir is empty
	WithMetadata  bool
	MetadataDir   string
	MoveProcessed bool
	ProcessedDir  string
}

// ConvertOptions configures a bulk rename of downloaded files
type ConvertOptions struct {
	VideoDir    string
	MetadataDir string
	OutputDir   string
	Extensions  []string
	DryRun      bool
}

// RenameResult is one file handled by a bulk rename
type RenameResult struct {
	From    string
	To      string
	Matched bool
	Skipped bool
	Err     error
}

// ConvertReport aggregates a bulk rename
type ConvertReport struct {
	Renamed   int
	Unmatched []string
	Skipped   []string
	Failed    []string
	Results   []RenameResult
}
