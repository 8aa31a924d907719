package model

import "time"

// Purposes stored in verification_tokens.purpose. A token is only valid for
// the flow it was minted for.
const (
	PurposeEmailVerify  = "email_verify"
	PurposeDeleteCancel = "delete_cancel"
)

// VerificationToken models a row in the `verification_tokens` table. Only
// the SHA-256 hash of the opaque token is stored; the raw value is sent to
// the user by email and never persisted. Tokens are single-use: they are
// deleted on consumption, and deleted in cascade when their owning user is
// removed.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the raw token value.
//	Purpose   – flow this token belongs to (email_verify or delete_cancel).
//	ExpiresAt – expiration timestamp.
//	CreatedAt – timestamp of creation.
type VerificationToken struct {
	ID        uint64    // verification_tokens.id
	UserID    uint64    // verification_tokens.user_id
	TokenHash string    // verification_tokens.token_hash
	Purpose   string    // verification_tokens.purpose
	ExpiresAt time.Time // verification_tokens.expires_at
	CreatedAt time.Time // verification_tokens.created_at
}
