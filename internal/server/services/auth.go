package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/mail"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// AuthService implements account, session and password reset flows. It keeps
// no per-request state; sessions are self-contained signed tokens.
type AuthService struct {
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	sessions    *auth.SessionIssuer
	mailer      mail.Sender
	metrics     *metrics.Metrics
	log         logging.Logger
	frontendURL string
	mailTimeout time.Duration
	now         func() time.Time
}

func NewAuthService(m repomanager.RepositoryManager, hasher PasswordHasher, sessions *auth.SessionIssuer,
	mailer mail.Sender, cfg *config.Config, met *metrics.Metrics, log logging.Logger) *AuthService {
	return &AuthService{
		repomanager: m,
		hasher:      hasher,
		sessions:    sessions,
		mailer:      mailer,
		metrics:     met,
		log:         log.With("module", "auth"),
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		mailTimeout: cfg.MailTimeout,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a USER account and returns it with a fresh session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, "", common.NewUserError(common.ErrValidation, "Email and password are required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Permissions:  []models.Permission{models.PermissionUser},
	}

	user, err = s.repomanager.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, "", common.NewUserError(common.ErrEmailTaken, "A user with email %s already exists", email)
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.metrics.Signup()
	s.log.Info(ctx, "user signed up", "user_id", user.ID)

	return user, token, nil
}

// Signin checks credentials and returns the user with a fresh session token.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.metrics.Signin(metrics.ResultUserNotFound)
			return nil, "", common.NewUserError(common.ErrUserNotFound, "No such user found for email %s", email)
		}
		s.metrics.Signin(metrics.ResultError)
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.Signin(metrics.ResultInvalidPassword)
		return nil, "", common.NewUserError(common.ErrInvalidPassword, "Invalid Password")
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		s.metrics.Signin(metrics.ResultError)
		return nil, "", err
	}

	s.metrics.Signin(metrics.ResultSuccess)
	return user, token, nil
}

// Signout acknowledges a logout. Sessions are stateless, so there is nothing
// to revoke server-side; the caller drops the cookie.
func (s *AuthService) Signout(ctx context.Context) string {
	return "Goodbye!"
}

// Me returns the session user, or nil when there is no session or the user
// no longer exists.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}

	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *AuthService) sessionUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, common.NewUserError(common.ErrNotAuthenticated, "You must be logged in!")
	}

	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewUserError(common.ErrNotAuthenticated, "You must be logged in!")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user to holders of ADMIN or PERMISSIONUPDATE.
func (s *AuthService) ListUsers(ctx context.Context, userID string) ([]*models.User, error) {
	actor, err := s.sessionUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := auth.HasPermission(actor, models.PermissionAdmin, models.PermissionPermissionUpdate); err != nil {
		return nil, err
	}

	users, err := s.repomanager.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// UpdatePermissions replaces the permission set of targetID.
func (s *AuthService) UpdatePermissions(ctx context.Context, actorID, targetID string, permissions []string) (*models.User, error) {
	actor, err := s.sessionUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if err := auth.HasPermission(actor, models.PermissionAdmin, models.PermissionPermissionUpdate); err != nil {
		return nil, err
	}

	perms, err := models.ParsePermissions(permissions)
	if err != nil {
		return nil, common.NewUserError(common.ErrValidation, "%s", err.Error())
	}

	user, err := s.repomanager.Users().UpdatePermissions(ctx, targetID, perms)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewUserError(common.ErrUserNotFound, "No such user found for id %s", targetID)
		}
		return nil, fmt.Errorf("error updating permissions: %w", err)
	}

	s.log.Info(ctx, "permissions updated", "actor_id", actor.ID, "user_id", user.ID,
		"permissions", models.JoinPermissions(user.Permissions))

	return user, nil
}
