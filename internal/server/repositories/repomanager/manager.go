package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/storeit/internal/dbx"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/files"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/uploads"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either a *sql.DB or a *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Files(db dbx.DBTX) files.Repository
	Uploads(db dbx.DBTX) uploads.Repository
}
