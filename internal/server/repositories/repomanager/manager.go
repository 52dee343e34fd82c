// Package repomanager hands out repositories bound to a DB handle. Passing
// a *sql.Tx instead of the *sql.DB yields repositories that participate in
// that transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/authmobile/authserver/internal/dbx"
	"github.com/authmobile/authserver/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
