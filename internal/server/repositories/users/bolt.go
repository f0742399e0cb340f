package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	bolt "go.etcd.io/bbolt"
)

// Bucket maps email -> JSON document.
var Bucket = []byte("users")

type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

func (r *BoltRepository) Create(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(toDocument(user))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(Bucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", Bucket, err)
		}
		if b.Get([]byte(user.Email)) != nil {
			return common.ErrorAlreadyExists
		}
		return b.Put([]byte(user.Email), data)
	})
}

func (r *BoltRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var d document
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(Bucket)
		if b == nil {
			return common.ErrorNotFound
		}
		v := b.Get([]byte(email))
		if v == nil {
			return common.ErrorNotFound
		}
		return json.Unmarshal(v, &d)
	})
	if err != nil {
		return nil, err
	}
	return d.user(), nil
}
