// Package secrets provides the PostgreSQL-backed repository for secret records.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tgvault/internal/common"
	"tgvault/internal/dbx"
	"tgvault/internal/server/models"
)

// PostgresRepository implements secret storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Secret) (int64, error) {
	query := `
		INSERT INTO secrets (name, site, account, password, extra, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		s.Name, s.Site, s.Account, s.Password, nullString(s.Extra), nullTime(s.ExpiresAt)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Secret, error) {
	query := `
		SELECT id, name, site, account, password, extra, expires_at, created_at
		FROM secrets WHERE id=$1;
	`
	var (
		item      models.Secret
		extra     sql.NullString
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Site, &item.Account, &item.Password,
		&extra, &expiresAt, &item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if extra.Valid {
		item.Extra = &extra.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		item.ExpiresAt = &t
	}
	return &item, nil
}

func (r *PostgresRepository) Search(ctx context.Context, substr string, limit int) ([]*models.SecretOverview, error) {
	query := `
		SELECT id, name, site, expires_at FROM secrets
		WHERE name ILIKE $1 OR site ILIKE $1
		ORDER BY created_at DESC LIMIT $2;
	`
	return r.queryOverviews(ctx, query, "%"+substr+"%", limit)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.SecretOverview, error) {
	query := `
		SELECT id, name, site, expires_at FROM secrets
		ORDER BY created_at DESC;
	`
	return r.queryOverviews(ctx, query)
}

func (r *PostgresRepository) ListRecords(ctx context.Context) ([]*models.Secret, error) {
	query := `
		SELECT id, name, site, account, password, extra, expires_at, created_at
		FROM secrets ORDER BY created_at DESC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select secrets: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		var (
			item      models.Secret
			extra     sql.NullString
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Site, &item.Account, &item.Password,
			&extra, &expiresAt, &item.CreatedAt); err != nil {
			return nil, err
		}
		if extra.Valid {
			item.Extra = &extra.String
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			item.ExpiresAt = &t
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.SecretOverview, error) {
	query := `
		SELECT id, name, site, expires_at FROM secrets
		WHERE expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at;
	`
	return r.queryOverviews(ctx, query, cutoff)
}

func (r *PostgresRepository) UpdateExpiry(ctx context.Context, id int64, expiresAt *time.Time) error {
	query := `UPDATE secrets SET expires_at=$1 WHERE id=$2;`
	return r.execExpectingOneRow(ctx, query, nullTime(expiresAt), id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM secrets WHERE id=$1;`
	return r.execExpectingOneRow(ctx, query, id)
}

func (r *PostgresRepository) queryOverviews(ctx context.Context, query string, args ...any) ([]*models.SecretOverview, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select secrets: %w", err)
	}
	defer rows.Close()

	var result []*models.SecretOverview
	for rows.Next() {
		var (
			item      models.SecretOverview
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Site, &expiresAt); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			item.ExpiresAt = &t
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) execExpectingOneRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
