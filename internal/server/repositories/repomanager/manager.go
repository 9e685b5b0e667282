package repomanager

import (
	"context"
	"database/sql"

	"github.com/ttakano/climblog/internal/dbx"
	"github.com/ttakano/climblog/internal/server/repositories/mountains"
	"github.com/ttakano/climblog/internal/server/repositories/records"
	"github.com/ttakano/climblog/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX so
// services can run several repos inside one transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Mountains(db dbx.DBTX) mountains.Repository
	Records(db dbx.DBTX) records.Repository
}
