// Package services contains server-side business logic: the per-user vault
// operations and account management.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/vaultitems"
	"github.com/dmitrijs2005/passvault/internal/server/vault"
	"github.com/google/uuid"
)

// VaultService implements vault CRUD for an authenticated identity. Every
// operation is scoped to identity.UserID; items of other users behave as if
// they did not exist.
type VaultService struct {
	repo  vaultitems.Repository
	keys  *KeyDeriver
	codec vault.Codec
	log   logging.Logger

	now   func() time.Time
	newID func() string
}

func NewVaultService(repo vaultitems.Repository, keys *KeyDeriver, log logging.Logger) *VaultService {
	return &VaultService{
		repo:  repo,
		keys:  keys,
		log:   log.With("module", "vault"),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// canonicalID returns id in the lowercase hyphenated form Create issues,
// so every backend sees the same key. Ids that cannot be parsed are
// reported as not found rather than as bad input.
func canonicalID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrorNotFound
	}
	return parsed.String(), nil
}

func decrypted(item *models.VaultItem, fields models.VaultFields) models.DecryptedItem {
	return models.DecryptedItem{
		ID:          item.ID,
		VaultFields: fields,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// List returns the caller's items newest first. Items that fail to decode
// are logged and left out. A non-empty query keeps only items whose title,
// username or URL contain it.
func (s *VaultService) List(ctx context.Context, id auth.Identity, query string) ([]models.DecryptedItem, error) {
	items, err := s.repo.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	key := s.keys.Derive(id.UserID)
	defer common.WipeByteArray(key)

	result := make([]models.DecryptedItem, 0, len(items))
	for _, item := range items {
		fields, err := s.codec.Decode(item.EncryptedData, key)
		if err != nil {
			s.log.Warn(ctx, "skipping undecodable vault item", "item_id", item.ID, "user_id", id.UserID, "error", err)
			continue
		}
		if !fields.Matches(query) {
			continue
		}
		result = append(result, decrypted(item, fields))
	}
	return result, nil
}

func (s *VaultService) Get(ctx context.Context, id auth.Identity, itemID string) (models.DecryptedItem, error) {
	itemID, err := canonicalID(itemID)
	if err != nil {
		return models.DecryptedItem{}, err
	}

	item, err := s.repo.Get(ctx, itemID, id.UserID)
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("get item: %w", err)
	}

	key := s.keys.Derive(id.UserID)
	defer common.WipeByteArray(key)

	fields, err := s.codec.Decode(item.EncryptedData, key)
	if err != nil {
		s.log.Warn(ctx, "vault item cannot be decoded", "item_id", item.ID, "user_id", id.UserID, "error", err)
		return models.DecryptedItem{}, common.ErrorInternal
	}
	return decrypted(item, fields), nil
}

// Create stores a new item and returns its id.
func (s *VaultService) Create(ctx context.Context, id auth.Identity, fields models.VaultFields) (string, error) {
	if !fields.Valid() {
		return "", common.ErrorValidation
	}

	key := s.keys.Derive(id.UserID)
	defer common.WipeByteArray(key)

	envelope, err := s.codec.Encode(fields, key)
	if err != nil {
		return "", fmt.Errorf("encode item: %w", err)
	}

	now := s.now()
	item := &models.VaultItem{
		ID:            s.newID(),
		UserID:        id.UserID,
		EncryptedData: envelope,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}

	s.log.Debug(ctx, "vault item created", "item_id", item.ID, "user_id", id.UserID)
	return item.ID, nil
}

// Update replaces the logical fields of an owned item. Validation happens
// before anything is read or written.
func (s *VaultService) Update(ctx context.Context, id auth.Identity, itemID string, fields models.VaultFields) error {
	if !fields.Valid() {
		return common.ErrorValidation
	}
	itemID, err := canonicalID(itemID)
	if err != nil {
		return err
	}

	key := s.keys.Derive(id.UserID)
	defer common.WipeByteArray(key)

	err = s.repo.UpdateOwned(ctx, itemID, id.UserID, func(item *models.VaultItem) error {
		envelope, err := s.codec.Encode(fields, key)
		if err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
		item.EncryptedData = envelope
		item.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (s *VaultService) Delete(ctx context.Context, id auth.Identity, itemID string) error {
	itemID, err := canonicalID(itemID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, itemID, id.UserID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
