package repository

import (
	"context"

	"github.com/warblerhq/warbler/internal/domain/entity"
)

// FollowRepository manages directed follow edges between users.
// The original association-collection style (user.following as a live list)
// is deliberately replaced by explicit edge operations.
type FollowRepository interface {
	// Add inserts the edge if absent. Returns true when a new edge was
	// created, false when it already existed.
	Add(ctx context.Context, followerID, followedID string) (bool, error)
	// Remove deletes the edge; removing a non-existent edge is a no-op.
	Remove(ctx context.Context, followerID, followedID string) error
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	ListFollowing(ctx context.Context, userID string) ([]*entity.User, error)
	ListFollowers(ctx context.Context, userID string) ([]*entity.User, error)
	Counts(ctx context.Context, userID string) (following int, followers int, err error)
}
