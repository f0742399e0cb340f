package services

import "github.com/dmitrijs2005/passvault/internal/cryptox"

// KeyDeriver turns a user id into that user's vault key using the
// configured server secret. Keys are recomputed on every call and never
// cached or stored.
type KeyDeriver struct {
	secret []byte
}

func NewKeyDeriver(secret string) *KeyDeriver {
	return &KeyDeriver{secret: []byte(secret)}
}

func (d *KeyDeriver) Derive(userID string) []byte {
	return cryptox.DeriveKey(userID, d.secret)
}
