package models

import "time"

// User is an account able to obtain session tokens.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
