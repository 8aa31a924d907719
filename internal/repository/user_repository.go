package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/synvoy/backend/internal/model"
	"github.com/synvoy/backend/internal/utils"
)

// UserRepo provides data access to the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,password_hash,first_name,last_name,phone,is_verified,status,created_at,updated_at"

// Create hashes the password and inserts a new user. New accounts start
// unverified and active. The UNIQUE KEY on users.email serializes
// concurrent registrations for the same address: exactly one insert wins,
// the other observes MySQL error 1062 and gets ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, firstName, lastName string, phone *string, cost int) (uint64, error) {
	email = strings.TrimSpace(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, phone, is_verified, status) VALUES (?,?,?,?,?,0,?)",
		email, hash, firstName, lastName, phone, model.StatusActive)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by exact email. Matching is exact as stored;
// the column's binary-safe comparison is left to the database.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", strings.TrimSpace(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.IsVerified, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// MarkVerified flips is_verified for a user. Once set, the account is
// permanently out of reach of the unverified-account cleanup.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET is_verified=1 WHERE id=?", id)
	return err
}

// UpdateStatus sets users.status (active, inactive or suspended).
func (r *UserRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET status=? WHERE id=?", status, id)
	return err
}

// ListUnverifiedBefore returns the ids and emails of users that are still
// unverified and were created before the cutoff. These are the accounts
// eligible for deletion by the cleanup job.
func (r *UserRepo) ListUnverifiedBefore(ctx context.Context, cutoff time.Time) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, email, created_at FROM users WHERE is_verified=0 AND created_at < ?", cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteTx removes a user row inside the caller's transaction. Dependent
// verification tokens must be removed first in the same transaction.
func (r *UserRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}
