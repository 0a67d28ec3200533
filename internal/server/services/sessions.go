package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tgvault/internal/common"
	"tgvault/internal/server/models"
	"tgvault/internal/server/repositories/repomanager"
)

// SessionService is the authoritative mechanism for resuming the capture
// wizard across stateless webhook invocations. A stored session older than the
// staleness window is treated as absent; the stale row is left in place and
// simply overwritten by the next write.
type SessionService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionService(db *sql.DB, repos repomanager.RepositoryManager, ttl time.Duration) *SessionService {
	return &SessionService{db: db, repos: repos, ttl: ttl, now: time.Now}
}

// Get returns the user's session, or a fresh idle one when no row exists or
// the stored row is stale.
func (s *SessionService) Get(ctx context.Context, userID int64) (*models.Session, error) {
	stored, updatedAt, err := s.repos.Sessions(s.db).Get(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return &models.Session{Step: models.StepIdle}, nil
	}
	if err != nil {
		return nil, err
	}
	if s.now().Sub(updatedAt) > s.ttl {
		return &models.Session{Step: models.StepIdle}, nil
	}
	return stored, nil
}

// Set upserts the session, stamping the current time.
func (s *SessionService) Set(ctx context.Context, userID int64, session *models.Session) error {
	return s.repos.Sessions(s.db).Set(ctx, userID, session, s.now())
}

// Clear deletes the session; no-op when absent.
func (s *SessionService) Clear(ctx context.Context, userID int64) error {
	return s.repos.Sessions(s.db).Clear(ctx, userID)
}
