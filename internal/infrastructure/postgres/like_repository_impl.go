package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
)

type LikeRepository struct {
	pool *pgxpool.Pool
}

func NewLikeRepository(pool *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{pool: pool}
}

// Toggle flips the like state in a single transaction keyed on the composite
// primary key: DELETE first, and only when no row was removed, INSERT with
// ON CONFLICT DO NOTHING. Concurrent double-submission by the same user
// converges to one state change instead of racing read-then-write.
func (r *LikeRepository) Toggle(ctx context.Context, messageID, userID string) (bool, error) {
	var liked bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `
			DELETE FROM message_likes WHERE message_id = $1 AND user_id = $2
		`, messageID, userID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 1 {
			liked = false
			return nil
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO message_likes (message_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (message_id, user_id) DO NOTHING
		`, messageID, userID); err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

func (r *LikeRepository) Exists(ctx context.Context, messageID, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM message_likes WHERE message_id = $1 AND user_id = $2
		)
	`, messageID, userID).Scan(&exists)
	return exists, err
}

func (r *LikeRepository) ListLikedMessages(ctx context.Context, userID string) ([]*entity.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM message_likes l
		JOIN messages m ON m.id = l.message_id
		JOIN users u ON u.id = m.user_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *LikeRepository) CountGiven(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM message_likes WHERE user_id = $1
	`, userID).Scan(&n)
	return n, err
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
