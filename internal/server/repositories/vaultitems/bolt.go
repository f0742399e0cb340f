package vaultitems

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	bolt "go.etcd.io/bbolt"
)

// Bucket is the top-level bolt bucket. Each owner gets a nested bucket
// keyed by user id holding item id -> JSON document.
var Bucket = []byte("vault_items")

// BoltRepository implements Repository on a bbolt file.
type BoltRepository struct {
	db  *bolt.DB
	log logging.Logger
}

func NewBoltRepository(db *bolt.DB, opts ...Option) *BoltRepository {
	return &BoltRepository{db: db, log: buildOptions(opts).log}
}

func (r *BoltRepository) Create(ctx context.Context, item *models.VaultItem) error {
	data, err := marshalItem(item)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(Bucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", Bucket, err)
		}
		owner, err := root.CreateBucketIfNotExists([]byte(item.UserID))
		if err != nil {
			return fmt.Errorf("failed to create user bucket: %w", err)
		}
		if owner.Get([]byte(item.ID)) != nil {
			return common.ErrorAlreadyExists
		}
		return owner.Put([]byte(item.ID), data)
	})
}

// ListByUser skips documents that cannot be parsed.
func (r *BoltRepository) ListByUser(ctx context.Context, userID string) ([]*models.VaultItem, error) {
	var result []*models.VaultItem
	err := r.db.View(func(tx *bolt.Tx) error {
		owner := ownerBucket(tx, userID)
		if owner == nil {
			return nil
		}
		return owner.ForEach(func(k, v []byte) error {
			item, err := unmarshalItem(v)
			if err != nil {
				r.log.Warn(ctx, "skipping unparseable vault item", "item_id", string(k), "user_id", userID, "error", err)
				return nil
			}
			result = append(result, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	newestFirst(result)
	return result, nil
}

func (r *BoltRepository) Get(ctx context.Context, id, userID string) (*models.VaultItem, error) {
	var item *models.VaultItem
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		item, err = getOwnedBolt(tx, id, userID)
		return err
	})
	return item, err
}

// UpdateOwned runs inside a single read-write transaction; bolt allows only
// one writer at a time.
func (r *BoltRepository) UpdateOwned(ctx context.Context, id, userID string, mutate MutateFunc) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		item, err := getOwnedBolt(tx, id, userID)
		if err != nil {
			return err
		}
		original := *item

		if err := mutate(item); err != nil {
			return err
		}

		original.EncryptedData = item.EncryptedData
		original.UpdatedAt = item.UpdatedAt

		data, err := marshalItem(&original)
		if err != nil {
			return err
		}
		return ownerBucket(tx, userID).Put([]byte(id), data)
	})
}

func (r *BoltRepository) Delete(ctx context.Context, id, userID string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		owner := ownerBucket(tx, userID)
		if owner == nil || owner.Get([]byte(id)) == nil {
			return common.ErrorNotFound
		}
		return owner.Delete([]byte(id))
	})
}

func ownerBucket(tx *bolt.Tx, userID string) *bolt.Bucket {
	root := tx.Bucket(Bucket)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(userID))
}

func getOwnedBolt(tx *bolt.Tx, id, userID string) (*models.VaultItem, error) {
	owner := ownerBucket(tx, userID)
	if owner == nil {
		return nil, common.ErrorNotFound
	}
	v := owner.Get([]byte(id))
	if v == nil {
		return nil, common.ErrorNotFound
	}
	return unmarshalItem(v)
}
