package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id does not resolve to an active
// session (expired, logged out, or never issued).
var ErrNotFound = errors.New("session not found")

// Session is the server-side state behind the opaque cookie value. Auth is a
// lookup of this record; nothing about the user is trusted from the client.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// Store creates, resolves, and destroys sessions.
type Store interface {
	Create(ctx context.Context, userID string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
