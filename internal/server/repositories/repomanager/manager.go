package repomanager

import (
	"context"
	"database/sql"

	"github.com/grana-app/grana-go/internal/dbx"
	"github.com/grana-app/grana-go/internal/server/repositories/perfils"
	"github.com/grana-app/grana-go/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Perfils(db dbx.DBTX) perfils.Repository
}
