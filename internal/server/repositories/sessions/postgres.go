// Package sessions provides the PostgreSQL-backed repository for wizard
// session rows.
package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tgvault/internal/common"
	"tgvault/internal/dbx"
	"tgvault/internal/server/models"
)

// PostgresRepository implements session storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.Session, time.Time, error) {
	query := `SELECT data, updated_at FROM sessions WHERE user_id=$1;`

	var (
		data      []byte
		updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, common.ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("db error: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, time.Time{}, fmt.Errorf("session decode error: %w", err)
	}
	return &s, updatedAt, nil
}

func (r *PostgresRepository) Set(ctx context.Context, userID int64, s *models.Session, updatedAt time.Time) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode error: %w", err)
	}

	query := `
		INSERT INTO sessions (user_id, step, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET step = EXCLUDED.step, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.db.ExecContext(ctx, query, userID, string(s.Step), data, updatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id=$1;`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
