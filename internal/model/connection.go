package model

import "time"

// Connection status values stored in user_connections.status.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
	ConnectionBlocked  = "blocked"
)

// UserConnection records a relationship between two users. The pair
// (requester, addressee) is unique; the reverse direction is the same
// relationship viewed from the other side and is not stored separately.
//
// Fields:
//
//	ID          – primary key identifier.
//	RequesterID – user who initiated the connection.
//	AddresseeID – user the request was sent to.
//	Status      – pending, accepted, declined or blocked.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last status change.
type UserConnection struct {
	ID          uint64    // user_connections.id
	RequesterID uint64    // user_connections.requester_id
	AddresseeID uint64    // user_connections.addressee_id
	Status      string    // user_connections.status
	CreatedAt   time.Time // user_connections.created_at
	UpdatedAt   time.Time // user_connections.updated_at
}
