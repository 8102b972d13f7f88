package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/models"
)

// MessageRepository stores private messages.
type MessageRepository struct {
	base
}

func NewMessageRepository(db *sqlx.DB, txGetter TxGetter) *MessageRepository {
	return &MessageRepository{base{db: db, txGetter: txGetter}}
}

// Create inserts msg and fills its ID.
func (r *MessageRepository) Create(ctx context.Context, msg *models.MessageDB) error {
	const query = `
		INSERT INTO messages (sender_id, recipient_id, body, time_stamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	args := []any{msg.SenderID, msg.RecipientID, msg.Body, msg.Timestamp}

	err := sqlx.GetContext(ctx, r.executor(ctx), &msg.ID, query, args...)
	logQuery(query, args, msg.ID, err)
	return err
}

// Received returns messages sent to recipientID, newest first.
func (r *MessageRepository) Received(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.MessageDB, error) {
	const query = `
		SELECT m.id, m.sender_id, m.recipient_id, u.username AS sender, m.body, m.time_stamp
		FROM messages m
		JOIN users u ON u.user_id = m.sender_id
		WHERE m.recipient_id = $1
		ORDER BY m.time_stamp DESC, m.id DESC
		LIMIT $2 OFFSET $3
	`
	args := []any{recipientID, limit, offset}

	var msgs []models.MessageDB
	err := sqlx.SelectContext(ctx, r.executor(ctx), &msgs, query, args...)
	logQuery(query, args, len(msgs), err)
	return msgs, err
}

// CountSince counts messages to recipientID newer than since. A nil since
// counts every message.
func (r *MessageRepository) CountSince(ctx context.Context, recipientID uuid.UUID, since *time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM messages
		WHERE recipient_id = $1
		  AND ($2::TIMESTAMPTZ IS NULL OR time_stamp > $2)
	`
	args := []any{recipientID, since}

	var n int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &n, query, args...)
	logQuery(query, args, n, err)
	return n, err
}
