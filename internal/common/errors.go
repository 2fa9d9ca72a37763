// Package common defines shared constants and sentinel errors used across
// the storefront server layers. Callers should use errors.Is to match these
// values; services wrap them with a human-readable message.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrEmailTaken = errors.New("email already in use")

	// Service-level errors (generic/internal flow control).
	ErrValidation  = errors.New("validation error")
	ErrRateLimited = errors.New("too many requests")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidSession   = errors.New("invalid session")
	ErrForbidden        = errors.New("forbidden")

	// Credential errors.
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrHashing         = errors.New("password hashing failed")

	// Password reset errors.
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
)

// UserError pairs a sentinel kind with a message that is safe to show to
// clients. errors.Is matches against Kind.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Kind }

// NewUserError returns a UserError of kind with a formatted message.
func NewUserError(kind error, format string, args ...any) error {
	return &UserError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
