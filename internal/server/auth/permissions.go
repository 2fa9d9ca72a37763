package auth

import (
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// HasPermission returns nil when user holds at least one of requiredAny.
// It does not check whether anyone is logged in; callers establish identity first.
func HasPermission(user *models.User, requiredAny ...models.Permission) error {
	if user != nil {
		for _, held := range user.Permissions {
			for _, want := range requiredAny {
				if held == want {
					return nil
				}
			}
		}
	}

	var held []models.Permission
	if user != nil {
		held = user.Permissions
	}
	return common.NewUserError(common.ErrForbidden, "You do not have sufficient permissions: %s. You have: %s",
		models.JoinPermissions(requiredAny), models.JoinPermissions(held))
}
