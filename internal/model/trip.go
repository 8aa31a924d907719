package model

import "time"

// Trip is a travel plan owned by a single user. Destinations and
// participants hang off the trip and are removed together with it.
//
// Fields:
//
//	ID          – primary key identifier.
//	OwnerID     – user who created the trip; only the owner may modify it.
//	Title       – short display title.
//	Description – optional free-form text.
//	StartsOn    – first day of the trip (nil when undecided).
//	EndsOn      – last day of the trip (nil when undecided).
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Trip struct {
	ID          uint64     // trips.id
	OwnerID     uint64     // trips.owner_id
	Title       string     // trips.title
	Description *string    // trips.description (nullable)
	StartsOn    *time.Time // trips.starts_on (nullable)
	EndsOn      *time.Time // trips.ends_on (nullable)
	CreatedAt   time.Time  // trips.created_at
	UpdatedAt   time.Time  // trips.updated_at
}

// TripParticipant links a user to a trip they were invited to. The trip
// owner is not stored as a participant row.
type TripParticipant struct {
	ID        uint64    // trip_participants.id
	TripID    uint64    // trip_participants.trip_id
	UserID    uint64    // trip_participants.user_id
	CreatedAt time.Time // trip_participants.created_at
}

// Destination is a stop on a trip.
//
// Fields:
//
//	ID        – primary key identifier.
//	TripID    – owning trip.
//	Name      – place name (city, region, landmark).
//	Country   – optional country name.
//	ArrivesOn – planned arrival date (nullable).
//	DepartsOn – planned departure date (nullable).
//	CreatedAt – creation timestamp.
type Destination struct {
	ID        uint64     // destinations.id
	TripID    uint64     // destinations.trip_id
	Name      string     // destinations.name
	Country   *string    // destinations.country (nullable)
	ArrivesOn *time.Time // destinations.arrives_on (nullable)
	DepartsOn *time.Time // destinations.departs_on (nullable)
	CreatedAt time.Time  // destinations.created_at
}
