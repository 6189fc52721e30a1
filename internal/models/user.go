// Package models holds the persistent data structures shared by
// repositories and services.
package models

import "time"

// User is an account record. Password always holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID        string
	Email     string
	Password  string
	Confirmed bool
	Avatar    string
	CreatedAt time.Time
}

// Identity is the resolved subject of an authenticated request. It is what
// the session cache stores per access-token jti, so it carries only the
// fields request handlers need.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
	Avatar    string `json:"avatar,omitempty"`
}

// Identity returns the cacheable identity view of the user.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Confirmed: u.Confirmed, Avatar: u.Avatar}
}
