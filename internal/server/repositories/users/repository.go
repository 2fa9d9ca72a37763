package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository is the user store. Lookups return common.ErrorNotFound when no
// row matches; Create returns common.ErrEmailTaken on a duplicate email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetResetToken(ctx context.Context, email, token string, expiry time.Time) error
	// FindByResetToken returns the user holding token whose expiry is not before notBefore.
	FindByResetToken(ctx context.Context, token string, notBefore time.Time) (*models.User, error)
	// UpdatePassword stores a new hash and clears the reset token in the same write.
	UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error)
	UpdatePermissions(ctx context.Context, id string, perms []models.Permission) (*models.User, error)
}
