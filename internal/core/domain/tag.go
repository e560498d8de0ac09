package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a label attached to videos
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// VideoTag links a video to a tag
type VideoTag struct {
	VideoID uuid.UUID
	TagID   uuid.UUID
}
