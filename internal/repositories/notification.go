package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/models"
)

// NotificationRepository is the append-only notification ledger.
type NotificationRepository struct {
	base
}

func NewNotificationRepository(db *sqlx.DB, txGetter TxGetter) *NotificationRepository {
	return &NotificationRepository{base{db: db, txGetter: txGetter}}
}

// Add appends n and fills its ID. Earlier entries with the same name are kept.
func (r *NotificationRepository) Add(ctx context.Context, n *models.NotificationDB) error {
	const query = `
		INSERT INTO notifications (user_id, name, payload_json, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	args := []any{n.UserID, n.Name, n.Payload, n.Timestamp}

	err := sqlx.GetContext(ctx, r.executor(ctx), &n.ID, query, args...)
	logQuery(query, args, n.ID, err)
	return err
}

// Since returns the notifications of userID strictly newer than since,
// oldest first.
func (r *NotificationRepository) Since(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.NotificationDB, error) {
	const query = `
		SELECT id, user_id, name, payload_json, timestamp
		FROM notifications
		WHERE user_id = $1 AND timestamp > $2
		ORDER BY timestamp ASC, id ASC
	`
	args := []any{userID, since}

	var ns []models.NotificationDB
	err := sqlx.SelectContext(ctx, r.executor(ctx), &ns, query, args...)
	logQuery(query, args, len(ns), err)
	return ns, err
}
