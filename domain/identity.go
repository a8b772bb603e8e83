package domain

import "github.com/google/uuid"

// Identity is the authenticated user bound to a session or connection.
// The zero value is the anonymous identity.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

func (i Identity) Anonymous() bool {
	return i.Username == ""
}
