// Package domain contains the core entities of the chat system.
// Entities are plain records; persistence and transport live elsewhere.
package domain

import "github.com/google/uuid"

// User is an account created on first login. Accounts are never
// updated or deleted; the password is stored as supplied.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"password"`
}
