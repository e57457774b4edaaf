package repository

import (
	"context"

	"github.com/warblerhq/warbler/internal/domain/entity"
)

// LikeRepository manages the message_likes join table.
type LikeRepository interface {
	// Toggle flips the like state for (messageID, userID) atomically and
	// returns the resulting state: true when the like now exists.
	Toggle(ctx context.Context, messageID, userID string) (bool, error)
	Exists(ctx context.Context, messageID, userID string) (bool, error)
	ListLikedMessages(ctx context.Context, userID string) ([]*entity.Message, error)
	// CountGiven counts likes the user has given (not received).
	CountGiven(ctx context.Context, userID string) (int, error)
}
