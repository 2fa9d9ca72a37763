package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/repositories/items"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

// RepositoryManager vends repositories for one storage backend.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Items() items.Repository
	// WithTx runs fn with a manager whose repositories share one transaction.
	// fn's writes are committed together or not at all.
	WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error
}
