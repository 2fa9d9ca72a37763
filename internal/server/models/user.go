package models

import "time"

// User is a storefront account. PasswordHash and the reset token fields
// never leave the server.
type User struct {
	ID               string       `json:"id"`
	Email            string       `json:"email"`
	Name             string       `json:"name"`
	PasswordHash     string       `json:"-"`
	Permissions      []Permission `json:"permissions"`
	ResetToken       *string      `json:"-"`
	ResetTokenExpiry *time.Time   `json:"-"`
	CreatedAt        time.Time    `json:"createdAt"`
}
