package entity

import "time"

// Follow is a directed edge in the self-referential many-to-many relation
// between users: FollowerID receives FollowedID's messages in their feed.
// The (follower_id, followed_id) pair is the primary key, so a user can hold
// at most one edge to a given target.
type Follow struct {
	FollowerID string
	FollowedID string
	CreatedAt  time.Time
}
