package sessions

import (
	"context"
	"time"

	"tgvault/internal/server/models"
)

// Repository persists at most one wizard session per user identity. Staleness
// is not evaluated here; the service layer decides what "too old" means.
type Repository interface {
	// Get returns the stored session and its last-updated timestamp, or
	// common.ErrNotFound when no row exists.
	Get(ctx context.Context, userID int64) (*models.Session, time.Time, error)

	// Set upserts the session with the given timestamp.
	Set(ctx context.Context, userID int64, s *models.Session, updatedAt time.Time) error

	// Clear deletes the session; no-op when absent.
	Clear(ctx context.Context, userID int64) error
}
