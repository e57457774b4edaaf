package repository

import (
	"context"

	"github.com/warblerhq/warbler/internal/domain/entity"
)

// MessageRepository defines the interface for message persistence.
type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Message, error)
	// Feed returns at most limit messages authored by userID or anyone
	// userID follows, newest first.
	Feed(ctx context.Context, userID string, limit int) ([]*entity.Message, error)
	Delete(ctx context.Context, id string) error
}
