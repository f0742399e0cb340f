package auth

import (
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// Verifier is the part of TokenService the authenticator needs.
type Verifier interface {
	Verify(token string) (Identity, bool)
}

// Authenticator resolves the identity behind a request from its session
// cookie. It keeps no state between calls.
type Authenticator struct {
	tokens Verifier
}

func NewAuthenticator(tokens Verifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// ResolveIdentity reads the session cookie and verifies it. A missing
// cookie and an invalid token look the same to the caller.
func (a *Authenticator) ResolveIdentity(r *http.Request) (Identity, bool) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false
	}
	return a.tokens.Verify(c.Value)
}
