package repository

import (
	"context"
	"database/sql"
	"time"
)

// VerificationTokenRepo persists single-use opaque tokens for the email
// verification and deletion-cancellation flows. Only SHA-256 digests are
// stored; the raw token travels to the user by email.
type VerificationTokenRepo struct{ DB *sql.DB }

func NewVerificationTokenRepo(db *sql.DB) *VerificationTokenRepo {
	return &VerificationTokenRepo{DB: db}
}

// Store inserts a token digest row for a user.
func (r *VerificationTokenRepo) Store(ctx context.Context, userID uint64, tokenHash, purpose string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO verification_tokens (user_id, token_hash, purpose, expires_at) VALUES (?,?,?,?)",
		userID, tokenHash, purpose, exp)
	return err
}

// Consume looks up a non-expired token by digest and purpose, deletes it and
// returns its owning user. Deletion happens in the same transaction as the
// lookup so a token can be redeemed at most once. sql.ErrNoRows is returned
// for unknown, expired or wrong-purpose tokens alike.
func (r *VerificationTokenRepo) Consume(ctx context.Context, tokenHash, purpose string) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var (
		id     uint64
		userID uint64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, user_id FROM verification_tokens WHERE token_hash=? AND purpose=? AND expires_at > UTC_TIMESTAMP() LIMIT 1 FOR UPDATE",
		tokenHash, purpose).Scan(&id, &userID)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM verification_tokens WHERE id=?", id); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return userID, nil
}

// DeleteByUserTx removes all tokens owned by a user inside the caller's
// transaction. Used by the cleanup job before deleting the user row so the
// two deletes commit or roll back together.
func (r *VerificationTokenRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM verification_tokens WHERE user_id=?", userID)
	return err
}

// DeleteByUserAndPurpose drops any outstanding tokens of one purpose for a
// user, e.g. before issuing a replacement verification email.
func (r *VerificationTokenRepo) DeleteByUserAndPurpose(ctx context.Context, userID uint64, purpose string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM verification_tokens WHERE user_id=? AND purpose=?", userID, purpose)
	return err
}
