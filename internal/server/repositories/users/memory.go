package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. Returned users are copies.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Permissions = append([]models.Permission(nil), u.Permissions...)
	if u.ResetToken != nil {
		t := *u.ResetToken
		c.ResetToken = &t
	}
	if u.ResetTokenExpiry != nil {
		e := *u.ResetTokenExpiry
		c.ResetTokenExpiry = &e
	}
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrEmailTaken
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.now()

	r.byID[user.ID] = cloneUser(user)
	r.byEmail[user.Email] = user.ID

	return user, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		result = append(result, cloneUser(u))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) SetResetToken(ctx context.Context, email, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return common.ErrorNotFound
	}
	u := r.byID[id]
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	return nil
}

func (r *MemoryRepository) FindByResetToken(ctx context.Context, token string, notBefore time.Time) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.ResetToken == nil || *u.ResetToken != token {
			continue
		}
		if u.ResetTokenExpiry == nil || u.ResetTokenExpiry.Before(notBefore) {
			continue
		}
		return cloneUser(u), nil
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	return cloneUser(u), nil
}

func (r *MemoryRepository) UpdatePermissions(ctx context.Context, id string, perms []models.Permission) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Permissions = append([]models.Permission(nil), perms...)
	return cloneUser(u), nil
}
