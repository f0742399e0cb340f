// Package auth issues and verifies session tokens and resolves the caller
// identity of an incoming request.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenValidity is how long an issued session token stays valid.
const DefaultTokenValidity = 7 * 24 * time.Hour

// Identity is the authenticated caller, resolved per request from a token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Claims holds the registered claims plus the embedded identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// Option customises a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService returns a service signing with secret. A non-positive
// validity falls back to DefaultTokenValidity.
func NewTokenService(secret []byte, validity time.Duration, opts ...Option) *TokenService {
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	s := &TokenService{secret: secret, validity: validity, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Validity returns the lifetime of issued tokens.
func (s *TokenService) Validity() time.Duration {
	return s.validity
}

// Issue returns a signed token embedding id that expires Validity() from now.
func (s *TokenService) Issue(id Identity) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		UserID: id.UserID,
		Email:  id.Email,
	})

	return token.SignedString(s.secret)
}

// Verify checks signature, algorithm and expiry and returns the embedded
// identity. Every failure yields (Identity{}, false); the reason is not
// reported.
func (s *TokenService) Verify(tokenString string) (Identity, bool) {
	if tokenString == "" {
		return Identity{}, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return Identity{}, false
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, true
}
