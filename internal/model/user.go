// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Password always holds a bcrypt hash once the record has been stored. The
// `json:"-"` tag keeps it out of every response, even if a handler were to
// serialise a User by accident.
type User struct {
	ID           string    `json:"id"           db:"id"`
	FirstName    string    `json:"firstName"    db:"first_name"`
	LastName     string    `json:"lastName"     db:"last_name"`
	EmailAddress string    `json:"emailAddress" db:"email_address"` // unique, compared exactly as stored
	Password     string    `json:"-"            db:"password"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"    db:"updated_at"`
}

// UserProfile is the public view of a user returned by GET /api/users.
type UserProfile struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// Profile strips the password hash and timestamps.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	}
}

// Owner is the slice of a user embedded in course responses.
type Owner struct {
	ID        string `json:"id"        db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName"  db:"last_name"`
}
