package repomanager

import (
	"context"
	"database/sql"

	"tgvault/internal/dbx"
	"tgvault/internal/server/repositories/secrets"
	"tgvault/internal/server/repositories/sessions"
)

// RepositoryManager vends repository implementations bound to a database
// handle, and exposes a schema migration hook.
type RepositoryManager interface {
	Secrets(db dbx.DBTX) secrets.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
