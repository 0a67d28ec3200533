package secrets

import (
	"context"
	"time"

	"tgvault/internal/server/models"
)

// Repository is the persistence surface for secret records. Encrypted columns
// pass through unchanged; encryption and decryption belong to the service layer.
type Repository interface {
	// Create inserts a record and returns the assigned id.
	Create(ctx context.Context, s *models.Secret) (int64, error)

	// GetByID returns the full record or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Secret, error)

	// Search matches the substring against name or site, case-insensitively,
	// returning at most limit overviews.
	Search(ctx context.Context, substr string, limit int) ([]*models.SecretOverview, error)

	// ListAll returns overviews ordered by creation time, newest first.
	ListAll(ctx context.Context) ([]*models.SecretOverview, error)

	// ListRecords returns full records (encrypted columns included) ordered by
	// creation time, newest first. Used by the backup export.
	ListRecords(ctx context.Context) ([]*models.Secret, error)

	// ListExpiringBefore returns overviews whose expiry date is set and not
	// after the cutoff, ordered by expiry date.
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.SecretOverview, error)

	// UpdateExpiry sets or clears the expiry date. Returns common.ErrNotFound
	// when no record has the id.
	UpdateExpiry(ctx context.Context, id int64, expiresAt *time.Time) error

	// Delete removes the record. Returns common.ErrNotFound when absent.
	Delete(ctx context.Context, id int64) error
}
