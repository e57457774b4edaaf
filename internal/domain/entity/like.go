package entity

import "time"

// MessageLike is the many-to-many relation between users and messages.
// The (message_id, user_id) pair is the primary key: at most one like row
// per user per message.
type MessageLike struct {
	MessageID string
	UserID    string
	CreatedAt time.Time
}
