package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// VideoStatus represents the lifecycle status of a video
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// Video represents a stored video asset, uploaded or imported
type Video struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Title            string
	Description      string
	OriginalFilename string
	StorageKey       string
	Bucket           string
	Region           string
	SizeBytes        int64
	MimeType         string
	DurationSeconds  *int
	Status           VideoStatus
	UploadID         *string
	Metadata         VideoMetadata
	UploadedAt       *time.Time
	IsPublic         bool
	ShareToken       *uuid.UUID
	SharedAt         *time.Time
	Tags             []Tag
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsOwnedBy reports whether owner may act on the video
func (v *Video) IsOwnedBy(owner uuid.UUID) bool {
	return v != nil && v.OwnerID == owner
}

// SourceSystem identifies where an imported video came from
type SourceSystem string

const (
	SourceVimeo SourceSystem = "vimeo"
	SourceLocal SourceSystem = "local"
)

// VideoMetadata is the provenance bag stored alongside a video.
// Known keys are typed fields, anything else lands in Extra.
type VideoMetadata struct {
	Source           SourceSystem
	SourceID         string
	ImportedAt       *time.Time
	OriginalQuality  string
	SourceCreatedAt  string
	SourceModifiedAt string
	Extra            map[string]any
}

const (
	metaKeySource     = "imported_from"
	metaKeyVimeoID    = "vimeo_id"
	metaKeyImportedAt = "import_date"
	metaKeyQuality    = "original_quality"
	metaKeyCreatedAt  = "created_at_vimeo"
	metaKeyModifiedAt = "modified_at_vimeo"
)

// ProvenanceKey is the metadata key the duplicate guard looks up
const ProvenanceKey = metaKeyVimeoID

// ProvenanceID returns the host-assigned identifier used by the duplicate guard
func (m VideoMetadata) ProvenanceID() string {
	return m.SourceID
}

// IsEmpty reports whether the bag carries nothing worth persisting
func (m VideoMetadata) IsEmpty() bool {
	return m.Source == "" && m.SourceID == "" && m.ImportedAt == nil && m.OriginalQuality == "" &&
		m.SourceCreatedAt == "" && m.SourceModifiedAt == "" && len(m.Extra) == 0
}

// MarshalJSON flattens typed keys and extension keys into a single object
func (m VideoMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+6)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.Source != "" {
		out[metaKeySource] = m.Source
	}
	if m.SourceID != "" {
		out[metaKeyVimeoID] = m.SourceID
	}
	if m.ImportedAt != nil {
		out[metaKeyImportedAt] = m.ImportedAt.UTC().Format(time.RFC3339)
	}
	if m.OriginalQuality != "" {
		out[metaKeyQuality] = m.OriginalQuality
	}
	if m.SourceCreatedAt != "" {
		out[metaKeyCreatedAt] = m.SourceCreatedAt
	}
	if m.SourceModifiedAt != "" {
		out[metaKeyModifiedAt] = m.SourceModifiedAt
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits a stored object back into typed keys and Extra
func (m *VideoMetadata) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = VideoMetadata{}
	for k, v := range raw {
		s, isString := v.(string)
		switch {
		case k == metaKeySource && isString:
			m.Source = SourceSystem(s)
		case k == metaKeyVimeoID:
			m.SourceID = stringify(v)
		case k == metaKeyImportedAt && isString:
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				m.ImportedAt = &t
			}
		case k == metaKeyQuality && isString:
			m.OriginalQuality = s
		case k == metaKeyCreatedAt && isString:
			m.SourceCreatedAt = s
		case k == metaKeyModifiedAt && isString:
			m.SourceModifiedAt = s
		default:
			if m.Extra == nil {
				m.Extra = map[string]any{}
			}
			m.Extra[k] = v
		}
	}
	return nil
}

// stringify keeps numeric ids written by older importers readable
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
