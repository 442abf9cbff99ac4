package models

import (
	"time"

	pub "github.com/dmitrijs2005/authdash/internal/models"
)

// User is an account row.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Public returns the profile exposed by the API.
func (u *User) Public() *pub.User {
	return &pub.User{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
