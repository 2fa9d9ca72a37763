package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/server/repositories/items"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps all data in process memory. Transactions are
// serialized; a failed fn does not roll back writes it already made.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	items *items.MemoryRepository
	txMu  *sync.Mutex
	inTx  bool
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		items: items.NewMemoryRepository(),
		txMu:  &sync.Mutex{},
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Items() items.Repository { return m.items }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	if m.inTx {
		return fn(ctx, m)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := *m
	tx.inTx = true
	return fn(ctx, &tx)
}
