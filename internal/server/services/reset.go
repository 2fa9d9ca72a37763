package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/mail"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// RequestReset stores a fresh reset token for email and mails a reset link.
// Mail delivery failures are logged and do not fail the request.
func (s *AuthService) RequestReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)

	users := s.repomanager.Users()

	if _, err := users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.metrics.ResetRequest(metrics.ResultUserNotFound)
			return "", common.NewUserError(common.ErrUserNotFound, "No such user found for email %s", email)
		}
		s.metrics.ResetRequest(metrics.ResultError)
		return "", fmt.Errorf("error loading user: %w", err)
	}

	token, expiry, err := auth.GenerateResetToken(s.now())
	if err != nil {
		s.metrics.ResetRequest(metrics.ResultError)
		return "", err
	}

	if err := users.SetResetToken(ctx, email, token, expiry); err != nil {
		s.metrics.ResetRequest(metrics.ResultError)
		return "", fmt.Errorf("error storing reset token: %w", err)
	}

	s.sendResetMail(ctx, email, token)
	s.metrics.ResetRequest(metrics.ResultSuccess)

	return "Thanks!", nil
}

func (s *AuthService) sendResetMail(ctx context.Context, email, token string) {
	body, err := mail.ResetEmail(s.frontendURL, token)
	if err != nil {
		s.metrics.MailFailure()
		s.log.Warn(ctx, "reset mail not rendered", "error", err)
		return
	}

	if s.mailTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
	}

	if err := s.mailer.Send(ctx, email, mail.ResetSubject, body); err != nil {
		s.metrics.MailFailure()
		s.log.Warn(ctx, "reset mail not sent", "to", email, "error", err)
	}
}

// ConfirmReset redeems a reset token: it sets the new password, clears the
// token in the same write and returns the user with a fresh session token.
func (s *AuthService) ConfirmReset(ctx context.Context, resetToken, password, confirmPassword string) (*models.User, string, error) {
	if password != confirmPassword {
		s.metrics.ResetConfirmation(metrics.ResultMismatch)
		return nil, "", common.NewUserError(common.ErrPasswordMismatch, "Your Passwords don't match!")
	}

	var user *models.User

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		users := m.Users()

		found, err := users.FindByResetToken(ctx, resetToken, auth.ResetWindowStart(s.now()))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewUserError(common.ErrInvalidOrExpiredToken, "This token is either invalid or expired")
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}

		user, err = users.UpdatePassword(ctx, found.ID, hash)
		if err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidOrExpiredToken) {
			s.metrics.ResetConfirmation(metrics.ResultInvalidToken)
		} else {
			s.metrics.ResetConfirmation(metrics.ResultError)
		}
		return nil, "", err
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		s.metrics.ResetConfirmation(metrics.ResultError)
		return nil, "", err
	}

	s.metrics.ResetConfirmation(metrics.ResultSuccess)
	s.log.Info(ctx, "password reset", "user_id", user.ID)

	return user, token, nil
}
