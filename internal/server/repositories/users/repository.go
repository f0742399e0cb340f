// Package users stores accounts keyed by their normalized email address.
package users

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type Repository interface {
	// Create fails with common.ErrorAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail returns common.ErrorNotFound for an unknown email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
