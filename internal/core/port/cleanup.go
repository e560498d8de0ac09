package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup of abandoned uploads
type CleanupService interface {
	CleanupStaleUploads(ctx context.Context, now time.Time) (int, error)
}
