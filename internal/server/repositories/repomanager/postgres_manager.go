// Package repomanager provides RepositoryManager implementations for PostgreSQL
// and process memory, wiring together repository constructors and database
// migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/migrations"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/items"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db   *sql.DB
	conn dbx.DBTX
	inTx bool
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{db: db, conn: db}, nil
}

// openDB is a seam for tests.
var openDB = sql.Open

// OpenPostgres connects to dsn through the pgx driver, checks the connection
// and applies pending migrations. The caller owns the returned *sql.DB.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	db, err := openDB("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	m, err := NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, nil
}

// Users returns a users.Repository bound to the manager's connection.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.conn)
}

// Items returns an items.Repository bound to the manager's connection.
func (m *PostgresRepositoryManager) Items() items.Repository {
	return items.NewPostgresRepository(m.conn)
}

// WithTx runs fn inside a database transaction. Nested calls reuse the
// enclosing transaction.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	if m.inTx {
		return fn(ctx, m)
	}
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{db: m.db, conn: tx, inTx: true})
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the manager's database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
