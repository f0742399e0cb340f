// Package repomanager selects a storage backend from configuration and
// vends the repositories built on it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/vaultitems"
)

type RepositoryManager interface {
	Users() users.Repository
	VaultItems() vaultitems.Repository
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// New opens the backend named by cfg.StorageBackend and prepares it for use
// (migrations, buckets).
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		m, err = asManager(NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN))
	case config.BackendBolt:
		m, err = asManager(NewBoltRepositoryManager(cfg.BoltPath, log))
	case config.BackendS3:
		m, err = asManager(NewS3RepositoryManagerFromConfig(ctx, cfg, log))
	case config.BackendMemory:
		m = NewMemoryRepositoryManager()
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// asManager keeps a failed constructor from yielding a non-nil interface
// holding a nil pointer.
func asManager[M RepositoryManager](m M, err error) (RepositoryManager, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}
