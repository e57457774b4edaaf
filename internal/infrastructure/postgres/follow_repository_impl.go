package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

// Add inserts the edge; ON CONFLICT DO NOTHING makes repeated follow attempts
// idempotent against the composite primary key.
func (r *FollowRepository) Add(ctx context.Context, followerID, followedID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`, followerID, followedID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *FollowRepository) Remove(ctx context.Context, followerID, followedID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2
	`, followerID, followedID)
	return err
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2
		)
	`, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumnsQ+`
		FROM users u
		JOIN follows f ON f.followed_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumnsQ+`
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *FollowRepository) Counts(ctx context.Context, userID string) (int, int, error) {
	var following, followers int
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM follows WHERE follower_id = $1),
			(SELECT count(*) FROM follows WHERE followed_id = $1)
	`, userID).Scan(&following, &followers)
	return following, followers, err
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
