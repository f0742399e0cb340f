package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/filex"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/vaultitems"
	bolt "go.etcd.io/bbolt"
)

// boltOpenTimeout bounds the wait for the file lock held by another process.
const boltOpenTimeout = 5 * time.Second

// BoltRepositoryManager keeps every repository in one bbolt file.
type BoltRepositoryManager struct {
	db  *bolt.DB
	log logging.Logger
}

func NewBoltRepositoryManager(path string, log logging.Logger) (*BoltRepositoryManager, error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := bolt.Open(abs, 0600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{users.Bucket, vaultitems.Bucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltRepositoryManager{db: db, log: log}, nil
}

func (m *BoltRepositoryManager) Users() users.Repository {
	return users.NewBoltRepository(m.db)
}

func (m *BoltRepositoryManager) VaultItems() vaultitems.Repository {
	return vaultitems.NewBoltRepository(m.db, vaultitems.WithLogger(m.log))
}

// Ping fails once the database has been closed.
func (m *BoltRepositoryManager) Ping(ctx context.Context) error {
	return m.db.View(func(*bolt.Tx) error { return nil })
}

func (m *BoltRepositoryManager) Close() error {
	return m.db.Close()
}
