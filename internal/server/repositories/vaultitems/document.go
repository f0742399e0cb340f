package vaultitems

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// document is the JSON form of a vault item in the key/value and object
// store backends.
type document struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	EncryptedData string    `json:"encrypted_data"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toDocument(item *models.VaultItem) document {
	return document{
		ID:            item.ID,
		UserID:        item.UserID,
		EncryptedData: item.EncryptedData,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func fromDocument(d document) *models.VaultItem {
	return &models.VaultItem{
		ID:            d.ID,
		UserID:        d.UserID,
		EncryptedData: d.EncryptedData,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func marshalItem(item *models.VaultItem) ([]byte, error) {
	data, err := json.Marshal(toDocument(item))
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	return data, nil
}

func unmarshalItem(data []byte) (*models.VaultItem, error) {
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return fromDocument(d), nil
}

// newestFirst sorts by CreatedAt descending, breaking ties by id so the
// order is stable across calls.
func newestFirst(items []*models.VaultItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
