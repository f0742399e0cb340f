package vaultitems

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/s3x"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// maxUpdateAttempts bounds the optimistic read-modify-write loop in
// S3Repository.UpdateOwned.
const maxUpdateAttempts = 3

// S3Repository stores one JSON object per item at
// vault_items/<userId>/<itemId>.json.
type S3Repository struct {
	client s3x.Client
	bucket string
	log    logging.Logger
}

func NewS3Repository(client s3x.Client, bucket string, opts ...Option) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, log: buildOptions(opts).log}
}

func userPrefix(userID string) string {
	return path.Join(string(Bucket), userID) + "/"
}

func itemKey(id, userID string) string {
	return userPrefix(userID) + id + ".json"
}

func (r *S3Repository) Create(ctx context.Context, item *models.VaultItem) error {
	return s3x.PutJSON(ctx, r.client, r.bucket, itemKey(item.ID, item.UserID), toDocument(item), s3x.PutCondition{CreateOnly: true})
}

func (r *S3Repository) ListByUser(ctx context.Context, userID string) ([]*models.VaultItem, error) {
	if userID == "" {
		return nil, nil
	}

	keys, err := s3x.ListKeys(ctx, r.client, r.bucket, userPrefix(userID))
	if err != nil {
		return nil, err
	}

	result := make([]*models.VaultItem, 0, len(keys))
	for _, key := range keys {
		var d document
		if _, err := s3x.GetJSON(ctx, r.client, r.bucket, key, &d); err != nil {
			// deleted between list and get
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			if errors.Is(err, s3x.ErrDecode) {
				r.log.Warn(ctx, "skipping unparseable vault item", "key", key, "user_id", userID, "error", err)
				continue
			}
			return nil, err
		}
		result = append(result, fromDocument(d))
	}

	newestFirst(result)
	return result, nil
}

func (r *S3Repository) get(ctx context.Context, id, userID string) (*models.VaultItem, string, error) {
	var d document
	etag, err := s3x.GetJSON(ctx, r.client, r.bucket, itemKey(id, userID), &d)
	if err != nil {
		return nil, "", err
	}
	if d.UserID != userID {
		return nil, "", common.ErrorNotFound
	}
	return fromDocument(d), etag, nil
}

func (r *S3Repository) Get(ctx context.Context, id, userID string) (*models.VaultItem, error) {
	item, _, err := r.get(ctx, id, userID)
	return item, err
}

// UpdateOwned writes with If-Match on the ETag it read and retries when
// another writer got there first.
func (r *S3Repository) UpdateOwned(ctx context.Context, id, userID string, mutate MutateFunc) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		item, etag, err := r.get(ctx, id, userID)
		if err != nil {
			return err
		}
		original := *item

		if err := mutate(item); err != nil {
			return err
		}

		d := toDocument(&original)
		d.EncryptedData = item.EncryptedData
		d.UpdatedAt = item.UpdatedAt

		err = s3x.PutJSON(ctx, r.client, r.bucket, itemKey(id, userID), d, s3x.PutCondition{IfMatch: etag})
		if errors.Is(err, s3x.ErrConflict) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: %w", id, s3x.ErrConflict)
}

// Delete checks existence first because S3 deletes are idempotent and
// never report a missing key.
func (r *S3Repository) Delete(ctx context.Context, id, userID string) error {
	key := itemKey(id, userID)
	ok, err := s3x.Exists(ctx, r.client, r.bucket, key)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return s3x.Delete(ctx, r.client, r.bucket, key)
}
