package items

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps items in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Item
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.Item), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = uuid.NewString()
	item.CreatedAt = r.now()
	r.items[item.ID] = *item
	return item, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &item, nil
}

func (r *MemoryRepository) List(ctx context.Context, limit, offset int) ([]*models.Item, error) {
	r.mu.RLock()
	all := make([]models.Item, 0, len(r.items))
	for _, item := range r.items {
		all = append(all, item)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset > len(all) {
		offset = len(all)
	}
	end := len(all)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}

	result := make([]*models.Item, 0, end-offset)
	for i := offset; i < end; i++ {
		item := all[i]
		result = append(result, &item)
	}
	return result, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd models.ItemUpdate) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Image != nil {
		item.Image = *upd.Image
	}
	if upd.LargeImage != nil {
		item.LargeImage = *upd.LargeImage
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	r.items[id] = item
	return &item, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	return nil
}
