// Package vault converts the logical fields of a vault item to and from the
// encrypted envelope stored in the database.
package vault

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// ErrDecode matches every *DecodeError via errors.Is.
var ErrDecode = errors.New("vault item cannot be decoded")

// DecodeError reports that an envelope could not be turned back into
// fields: wrong key, corrupted ciphertext or a plaintext that is not the
// expected JSON document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %v", ErrDecode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Codec encodes and decodes vault envelopes.
type Codec struct{}

// Encode serializes the five logical fields and seals them under key.
func (Codec) Encode(fields models.VaultFields, key []byte) (string, error) {
	return cryptox.EncryptEntry(fields, key)
}

// Decode opens envelope with key. Any failure is returned as *DecodeError.
func (Codec) Decode(envelope string, key []byte) (models.VaultFields, error) {
	var fields models.VaultFields
	if err := cryptox.DecryptEntry(envelope, key, &fields); err != nil {
		return models.VaultFields{}, &DecodeError{Err: err}
	}
	return fields, nil
}
