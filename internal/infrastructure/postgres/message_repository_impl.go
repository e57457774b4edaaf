package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `m.id, m.user_id, m.text, m.created_at, u.username, u.image_url`

func scanMessage(row pgx.Row) (*entity.Message, error) {
	m := &entity.Message{}
	if err := row.Scan(&m.ID, &m.UserID, &m.Text, &m.CreatedAt, &m.Username, &m.ImageURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (user_id, text)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, m.UserID, m.Text)
	return row.Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	return scanMessage(r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages m JOIN users u ON u.id = m.user_id
		WHERE m.id = $1
	`, id))
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages m JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// Feed selects the newest messages authored by the user or anyone the user
// follows. The follow set is resolved inside the same statement so the read
// is consistent without an explicit transaction.
func (r *MessageRepository) Feed(ctx context.Context, userID string, limit int) ([]*entity.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages m JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
		   OR m.user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
		ORDER BY m.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// Delete removes the message; its like rows go with it via ON DELETE CASCADE.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func collectMessages(rows pgx.Rows) ([]*entity.Message, error) {
	msgs := make([]*entity.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
