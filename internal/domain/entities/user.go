package entities

import (
	"time"
)

// User represents an account on the platform
type User struct {
	ID           string    `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Public returns a copy of the user without credential material
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}

// UserSummary is the owner block embedded in place payloads
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// Actor is the identity performing an operation
type Actor struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"is_admin"`
}

// Is reports whether the actor is the given user
func (a *Actor) Is(userID string) bool {
	return a != nil && a.ID != "" && a.ID == userID
}

// Admin reports whether the actor holds the admin flag
func (a *Actor) Admin() bool {
	return a != nil && a.IsAdmin
}
