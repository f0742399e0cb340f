// Package generator produces random passwords from configurable character
// classes.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

const (
	MinLength     = 8
	MaxLength     = 64
	DefaultLength = 16
)

var ErrLength = errors.New("generator: length out of range")

// Options selects the character classes. Lowercase letters are always used.
type Options struct {
	Length    int
	Uppercase bool
	Digits    bool
	Symbols   bool
}

// DefaultOptions enables every class at the default length.
func DefaultOptions() Options {
	return Options{Length: DefaultLength, Uppercase: true, Digits: true, Symbols: true}
}

func (o Options) charset() string {
	var b strings.Builder
	b.WriteString(Lowercase)
	if o.Uppercase {
		b.WriteString(Uppercase)
	}
	if o.Digits {
		b.WriteString(Digits)
	}
	if o.Symbols {
		b.WriteString(Symbols)
	}
	return b.String()
}

// Generate draws every character uniformly from the combined charset.
func Generate(o Options) (string, error) {
	if o.Length < MinLength || o.Length > MaxLength {
		return "", ErrLength
	}

	charset := o.charset()
	limit := big.NewInt(int64(len(charset)))

	out := make([]byte, o.Length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
