package model

import "time"

// Account status values stored in users.status. Login is permitted only for
// StatusActive accounts; the other two states reject authentication without
// revealing why.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// User represents an application user record as stored in the `users`
// table. The PasswordHash column holds a bcrypt string and is never
// serialized to clients; handlers define separate response types with
// JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address (uniqueness enforced by the store).
//	PasswordHash – bcrypt hashed password.
//	FirstName    – given name.
//	LastName     – family name.
//	Phone        – optional phone number (nil when absent).
//	IsVerified   – whether the email address has been confirmed.
//	Status       – account status (active, inactive or suspended).
//	CreatedAt    – timestamp of creation; drives the unverified-account
//	               retention window.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	Phone        *string    // users.phone (nullable)
	IsVerified   bool       // users.is_verified
	Status       string     // users.status
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}
