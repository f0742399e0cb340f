package vaultitems

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// MemoryRepository keeps items in process memory. Callers always receive
// copies, so mutating a returned item never touches the stored one.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.VaultItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.VaultItem)}
}

func (r *MemoryRepository) Create(ctx context.Context, item *models.VaultItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.items[item.ID] = *item
	return nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]*models.VaultItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.VaultItem
	for _, item := range r.items {
		if item.UserID == userID {
			c := item
			result = append(result, &c)
		}
	}
	newestFirst(result)
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id, userID string) (*models.VaultItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &item, nil
}

func (r *MemoryRepository) UpdateOwned(ctx context.Context, id, userID string, mutate MutateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok || stored.UserID != userID {
		return common.ErrorNotFound
	}

	c := stored
	if err := mutate(&c); err != nil {
		return err
	}

	stored.EncryptedData = c.EncryptedData
	stored.UpdatedAt = c.UpdatedAt
	r.items[id] = stored
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	return nil
}
