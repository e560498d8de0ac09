package video

import (
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// V1Video is the owner view of a video
type V1Video struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Filename    string               `json:"filename"`
	Size        int64                `json:"size"`
	MimeType    string               `json:"mimetype"`
	Duration    *int                 `json:"duration,omitempty"`
	Status      domain.VideoStatus   `json:"status"`
	Metadata    domain.VideoMetadata `json:"metadata"`
	Tags        []string             `json:"tags"`
	IsPublic    bool                 `json:"isPublic"`
	ShareURL    *string              `json:"shareUrl,omitempty"`
	SharedAt    *time.Time           `json:"sharedAt,omitempty"`
	DownloadURL *string              `json:"downloadUrl,omitempty"`
	UploadedAt  *time.Time           `json:"uploadedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func (h *HandlerV1) toV1(v domain.Video, downloadURL *string) V1Video {
	tags := make([]string, 0, len(v.Tags))
	for _, t := range v.Tags {
		tags = append(tags, t.Name)
	}

	out := V1Video{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Filename:    v.OriginalFilename,
		Size:        v.SizeBytes,
		MimeType:    v.MimeType,
		Duration:    v.DurationSeconds,
		Status:      v.Status,
		Metadata:    v.Metadata,
		Tags:        tags,
		IsPublic:    v.IsPublic,
		SharedAt:    v.SharedAt,
		DownloadURL: downloadURL,
		UploadedAt:  v.UploadedAt,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if v.IsPublic && v.ShareToken != nil {
		url := h.publicBaseURL + "/share/" + v.ShareToken.String()
		out.ShareURL = &url
	}
	return out
}
