package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/issuetracker/internal/dbx"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/products"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/tickets"
	"github.com/dmitrijs2005/issuetracker/internal/server/repositories/tokens"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository can run inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Products(db dbx.DBTX) products.Repository
	Tickets(db dbx.DBTX) tickets.Repository
}
