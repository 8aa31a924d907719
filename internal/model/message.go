package model

import "time"

// Message is a direct text message between two connected users. Messages
// can only be sent once the connection between sender and recipient has
// been accepted; the handler enforces that before inserting.
//
// Fields:
//
//	ID          – primary key identifier.
//	SenderID    – author of the message.
//	RecipientID – receiving user.
//	Body        – message text.
//	ReadAt      – when the recipient marked it read (nil while unread).
//	CreatedAt   – creation timestamp.
type Message struct {
	ID          uint64     // messages.id
	SenderID    uint64     // messages.sender_id
	RecipientID uint64     // messages.recipient_id
	Body        string     // messages.body
	ReadAt      *time.Time // messages.read_at (nullable)
	CreatedAt   time.Time  // messages.created_at
}
