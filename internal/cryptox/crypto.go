// Package cryptox holds the symmetric primitives used by the vault: per-user
// key derivation and a self-contained AES-GCM envelope.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// KeySize is the length of keys returned by DeriveKey (AES-256).
const KeySize = sha256.Size

// ErrMalformedEnvelope is returned when a sealed value is too short to
// contain a nonce and an authentication tag.
var ErrMalformedEnvelope = errors.New("malformed envelope")

// DeriveKey returns SHA-256(userID || secret). The result is deterministic:
// the same user and secret always yield the same key, so nothing needs to be
// stored. Changing the secret makes every previously sealed value unreadable.
func DeriveKey(userID string, secret []byte) []byte {
	h := sha256.New()
	h.Write([]byte(userID))
	h.Write(secret)
	return h.Sum(nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key. A fresh random nonce is
// generated for every call and prepended to the ciphertext, so the output
// carries everything needed to decrypt it besides the key.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong key or any modification of sealed makes the
// authentication check fail.
func Open(sealed, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrMalformedEnvelope
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	return aead.Open(nil, nonce, ciphertext, nil)
}

// EncryptEntry serializes entry to JSON, seals it under key and returns the
// result as standard base64 text suitable for a string column.
//
// Example:
//
//	key := cryptox.DeriveKey(userID, secret)
//	envelope, err := cryptox.EncryptEntry(fields, key)
func EncryptEntry(entry any, key []byte) (string, error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	sealed, err := Seal(plaintext, key)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptEntry decodes an envelope produced by EncryptEntry, opens it with
// key and unmarshals the JSON plaintext into v.
func DecryptEntry(envelope string, key []byte, v any) error {
	sealed, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return fmt.Errorf("base64: %w", err)
	}

	plaintext, err := Open(sealed, key)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
