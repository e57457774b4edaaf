package entity

import "time"

// MaxMessageLen is the stored length bound for message text.
const MaxMessageLen = 140

// Message is a short post owned by a user. Messages are immutable after
// creation; there is no edit operation.
type Message struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time

	// Denormalized author fields filled by list queries.
	Username string
	ImageURL string
}
