package items

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository is the item store. Missing rows yield common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	// List returns items newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Item, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, upd models.ItemUpdate) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}
