package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/synvoy/backend/internal/model"
)

// ConnectionRepo provides data access to the user_connections table. A
// connection is stored once, directional (requester -> addressee); both
// directions are considered when checking whether two users are linked.
type ConnectionRepo struct{ DB *sql.DB }

func NewConnectionRepo(db *sql.DB) *ConnectionRepo { return &ConnectionRepo{DB: db} }

const connectionColumns = "id,requester_id,addressee_id,status,created_at,updated_at"

// Create inserts a pending connection request. ErrConflict is returned when
// a request between the pair already exists in either direction.
func (r *ConnectionRepo) Create(ctx context.Context, requesterID, addresseeID uint64) (uint64, error) {
	if _, err := r.GetBetween(ctx, requesterID, addresseeID); err == nil {
		return 0, ErrConflict
	} else if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_connections (requester_id, addressee_id, status) VALUES (?,?,?)",
		requesterID, addresseeID, model.ConnectionPending)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a connection by id.
func (r *ConnectionRepo) GetByID(ctx context.Context, id uint64) (model.UserConnection, error) {
	var c model.UserConnection
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+connectionColumns+" FROM user_connections WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetBetween fetches the connection between two users regardless of which
// side initiated it.
func (r *ConnectionRepo) GetBetween(ctx context.Context, a, b uint64) (model.UserConnection, error) {
	var c model.UserConnection
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+connectionColumns+" FROM user_connections WHERE (requester_id=? AND addressee_id=?) OR (requester_id=? AND addressee_id=?) LIMIT 1",
		a, b, b, a).
		Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// UpdateStatus transitions a connection to a new status.
func (r *ConnectionRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user_connections SET status=? WHERE id=?", status, id)
	return err
}

// ListForUser returns all connections where the user is on either side,
// newest first.
func (r *ConnectionRepo) ListForUser(ctx context.Context, userID uint64) ([]model.UserConnection, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+connectionColumns+" FROM user_connections WHERE requester_id=? OR addressee_id=? ORDER BY id DESC",
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.UserConnection
	for rows.Next() {
		var c model.UserConnection
		if err := rows.Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a connection row.
func (r *ConnectionRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM user_connections WHERE id=?", id)
	return err
}

// AreConnected reports whether two users have an accepted connection in
// either direction. Messaging is gated on this.
func (r *ConnectionRepo) AreConnected(ctx context.Context, a, b uint64) (bool, error) {
	c, err := r.GetBetween(ctx, a, b)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.Status == model.ConnectionAccepted, nil
}
