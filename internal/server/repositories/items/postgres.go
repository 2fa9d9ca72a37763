// Package items provides item storage backed by PostgreSQL or process memory.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

const itemColumns = `id, title, description, image, large_image, price, user_id, created_at`

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.LargeImage,
		&item.Price, &item.UserID, &item.CreatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Create inserts item and fills in its generated id and creation time.
func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (title, description, image, large_image, price, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.Title, item.Description, item.Image, item.LargeImage, item.Price, item.UserID).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
		`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Update applies the non-nil fields of upd and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.ItemUpdate) (*models.Item, error) {
	query := `
		UPDATE items SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			image = COALESCE($4, image),
			large_image = COALESCE($5, large_image),
			price = COALESCE($6, price)
		WHERE id = $1
		RETURNING ` + itemColumns
	return r.queryOne(ctx, query, id, upd.Title, upd.Description, upd.Image, upd.LargeImage, upd.Price)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
