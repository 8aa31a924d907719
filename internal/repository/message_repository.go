package repository

import (
	"context"
	"database/sql"

	"github.com/synvoy/backend/internal/model"
)

// MessageRepo provides data access to the messages table.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts a message and returns its id.
func (r *MessageRepo) Create(ctx context.Context, senderID, recipientID uint64, body string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, recipient_id, body) VALUES (?,?,?)",
		senderID, recipientID, body)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListConversation returns up to limit messages exchanged between two users,
// newest first.
func (r *MessageRepo) ListConversation(ctx context.Context, a, b uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, sender_id, recipient_id, body, read_at, created_at
		 FROM messages
		 WHERE (sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?)
		 ORDER BY id DESC LIMIT ?`,
		a, b, b, a, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Message
	for rows.Next() {
		var m model.Message
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &readAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead stamps read_at on every unread message sent by peer to the user.
// It returns the number of messages affected.
func (r *MessageRepo) MarkRead(ctx context.Context, userID, peerID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE messages SET read_at=UTC_TIMESTAMP() WHERE recipient_id=? AND sender_id=? AND read_at IS NULL",
		userID, peerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
