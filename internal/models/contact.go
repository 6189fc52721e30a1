package models

import "time"

// Contact is an address-book entry owned by a single user.
type Contact struct {
	ID          int64
	UserID      string
	Name        string
	Surname     string
	Email       string
	PhoneNumber string
	Birthday    time.Time
	Description string
}
