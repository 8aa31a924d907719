package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/synvoy/backend/internal/model"
)

// TripRepo provides data access to trips, trip_participants and
// destinations. Destinations and participants are children of a trip and
// are deleted together with it inside one transaction, since the schema
// relies on explicit cascades rather than ON DELETE CASCADE.
type TripRepo struct{ DB *sql.DB }

func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{DB: db} }

const tripColumns = "id,owner_id,title,description,starts_on,ends_on,created_at,updated_at"

// Create inserts a trip and returns its id.
func (r *TripRepo) Create(ctx context.Context, ownerID uint64, title string, description *string, startsOn, endsOn *time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO trips (owner_id, title, description, starts_on, ends_on) VALUES (?,?,?,?,?)",
		ownerID, title, description, startsOn, endsOn)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a trip by id.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (model.Trip, error) {
	var t model.Trip
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.StartsOn, &t.EndsOn, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListForUser returns trips the user owns or participates in, newest first.
func (r *TripRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Trip, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE owner_id=?
		 UNION
		 SELECT t.id,t.owner_id,t.title,t.description,t.starts_on,t.ends_on,t.created_at,t.updated_at
		 FROM trips t JOIN trip_participants p ON p.trip_id=t.id WHERE p.user_id=?
		 ORDER BY id DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Trip
	for rows.Next() {
		var t model.Trip
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.StartsOn, &t.EndsOn, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable trip columns.
func (r *TripRepo) Update(ctx context.Context, id uint64, title string, description *string, startsOn, endsOn *time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE trips SET title=?, description=?, starts_on=?, ends_on=? WHERE id=?",
		title, description, startsOn, endsOn, id)
	return err
}

// DeleteCascadeTx removes a trip with its destinations and participants
// inside the caller's transaction: child rows first, then the trip row.
func (r *TripRepo) DeleteCascadeTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM destinations WHERE trip_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM trip_participants WHERE trip_id=?", id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM trips WHERE id=?", id)
	return err
}

// AddParticipant links a user to a trip. ErrConflict on duplicates.
func (r *TripRepo) AddParticipant(ctx context.Context, tripID, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO trip_participants (trip_id, user_id) VALUES (?,?)", tripID, userID)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrConflict
	}
	return err
}

// RemoveParticipant unlinks a user from a trip.
func (r *TripRepo) RemoveParticipant(ctx context.Context, tripID, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM trip_participants WHERE trip_id=? AND user_id=?", tripID, userID)
	return err
}

// IsParticipant reports whether the user is a participant on the trip.
func (r *TripRepo) IsParticipant(ctx context.Context, tripID, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM trip_participants WHERE trip_id=? AND user_id=? LIMIT 1", tripID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// AddDestination appends a destination to a trip and returns its id.
func (r *TripRepo) AddDestination(ctx context.Context, tripID uint64, name string, country *string, arrivesOn, departsOn *time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO destinations (trip_id, name, country, arrives_on, departs_on) VALUES (?,?,?,?,?)",
		tripID, name, country, arrivesOn, departsOn)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListDestinations returns a trip's destinations in arrival order, with
// undated stops last.
func (r *TripRepo) ListDestinations(ctx context.Context, tripID uint64) ([]model.Destination, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, trip_id, name, country, arrives_on, departs_on, created_at
		 FROM destinations WHERE trip_id=?
		 ORDER BY arrives_on IS NULL, arrives_on, id`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Destination
	for rows.Next() {
		var d model.Destination
		if err := rows.Scan(&d.ID, &d.TripID, &d.Name, &d.Country, &d.ArrivesOn, &d.DepartsOn, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDestination removes one destination row, scoped to its trip.
func (r *TripRepo) DeleteDestination(ctx context.Context, tripID, destID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM destinations WHERE id=? AND trip_id=?", destID, tripID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
