package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return common.ErrorAlreadyExists
	}
	r.byEmail[user.Email] = *user
	return nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
