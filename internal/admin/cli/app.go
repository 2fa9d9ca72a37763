package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

type App struct {
	config  *config.Config
	manager repomanager.RepositoryManager
	hasher  *auth.Hasher
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the configured store. The admin console only makes sense
// against PostgreSQL; the memory backend is accepted for local experiments.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	app := &App{
		config: c,
		hasher: auth.NewHasher(c.BcryptCost),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	if c.Storage == config.StorageMemory {
		app.manager = repomanager.NewMemoryRepositoryManager()
		return app, nil
	}

	db, m, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	app.db = db
	app.manager = m

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
