package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovs/accountd/internal/dbx"
	"github.com/avolkovs/accountd/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code against the pooled connection or inside a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
