// Package models defines server-side data models shared by services,
// repositories and transport.
package models

import (
	"strings"
	"time"
)

// VaultItem is the persisted shape of a vault record. All credential fields
// live inside EncryptedData; the remaining columns are plain metadata.
type VaultItem struct {
	ID string
	// UserID is the owner. It never changes after creation.
	UserID        string
	EncryptedData string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// VaultFields is the logical (decrypted) content of a vault item and the
// only data that is ever encrypted. Timestamps are deliberately absent.
type VaultFields struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	URL      string `json:"url"`
	Password string `json:"password"`
	Notes    string `json:"notes"`
}

// Valid reports whether the required fields (title and password) are set.
func (f VaultFields) Valid() bool {
	return f.Title != "" && f.Password != ""
}

// Matches reports whether query occurs, case-insensitively, in the title,
// username or URL. An empty query matches everything.
func (f VaultFields) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(f.Title), q) ||
		strings.Contains(strings.ToLower(f.Username), q) ||
		strings.Contains(strings.ToLower(f.URL), q)
}

// DecryptedItem is what the owner gets back: identifier, logical fields and
// the plain timestamps.
type DecryptedItem struct {
	ID string
	VaultFields
	CreatedAt time.Time
	UpdatedAt time.Time
}
