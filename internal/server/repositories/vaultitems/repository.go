// Package vaultitems stores encrypted vault items. Every read and write is
// scoped by the (item id, owner id) pair: an item owned by someone else is
// reported exactly like a missing one, with common.ErrorNotFound.
package vaultitems

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// MutateFunc changes an item loaded by UpdateOwned before it is written
// back. Returning an error aborts the update without writing.
type MutateFunc func(item *models.VaultItem) error

type Repository interface {
	// Create persists a new item. ID, UserID and timestamps are set by the caller.
	Create(ctx context.Context, item *models.VaultItem) error
	// ListByUser returns the user's items, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.VaultItem, error)
	Get(ctx context.Context, id, userID string) (*models.VaultItem, error)
	// UpdateOwned loads the item, applies mutate and writes EncryptedData and
	// UpdatedAt back as one atomic write. UserID and CreatedAt are never written.
	UpdateOwned(ctx context.Context, id, userID string, mutate MutateFunc) error
	Delete(ctx context.Context, id, userID string) error
}

// Option configures the document-backed repositories.
type Option func(*options)

type options struct {
	log logging.Logger
}

// WithLogger sets where skipped documents are reported. The default
// discards them.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{log: logging.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With("module", "vaultitems")
	return o
}
