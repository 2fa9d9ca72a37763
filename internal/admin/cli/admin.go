package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

var adminPermissions = []models.Permission{
	models.PermissionAdmin,
	models.PermissionUser,
	models.PermissionPermissionUpdate,
}

func (a *App) createAdmin(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	email = strings.ToLower(email)
	if email == "" {
		return errors.New("email must not be empty")
	}

	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	password, err := GetNewPassword(a.out)
	if err != nil {
		return err
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return err
	}

	user, err := a.manager.Users().Create(ctx, &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Permissions:  adminPermissions,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return fmt.Errorf("a user with email %s already exists", email)
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Fprintf(a.out, "Created %s (%s) with %s\n", user.Email, user.ID, models.JoinPermissions(user.Permissions))
	return nil
}

func (a *App) grant(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	email = strings.ToLower(email)

	raw, err := GetSimpleText(a.reader, "Enter permissions (comma separated)", a.out)
	if err != nil {
		return err
	}

	perms, err := models.ParsePermissions(strings.Split(raw, ","))
	if err != nil {
		return err
	}

	users := a.manager.Users()

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("no such user found for email %s", email)
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	user, err = users.UpdatePermissions(ctx, user.ID, perms)
	if err != nil {
		return fmt.Errorf("error updating permissions: %w", err)
	}

	fmt.Fprintf(a.out, "%s now has %s\n", user.Email, models.JoinPermissions(user.Permissions))
	return nil
}

func (a *App) listUsers(ctx context.Context) error {

	users, err := a.manager.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("error listing users: %w", err)
	}

	for _, u := range users {
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", u.ID, u.Email, models.JoinPermissions(u.Permissions))
	}
	return nil
}
