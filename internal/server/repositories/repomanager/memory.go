package repomanager

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/vaultitems"
)

// MemoryRepositoryManager holds everything in process memory. Data is lost
// on restart; it backs tests and local demos.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	items *vaultitems.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		items: vaultitems.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) VaultItems() vaultitems.Repository {
	return m.items
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
