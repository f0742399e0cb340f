package users

import (
	"time"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type document struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func toDocument(u *models.User) document {
	return document{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt}
}

func (d document) user() *models.User {
	return &models.User{ID: d.ID, Email: d.Email, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}
}
