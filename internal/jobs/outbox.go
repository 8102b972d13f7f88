package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// Envelope is a document handed off for delivery outside the application,
// such as an export archive or a password reset mail.
type Envelope struct {
	Kind      string    `json:"kind"`
	UserID    uuid.UUID `json:"user_id"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Outbox publishes envelopes on the outbox topic.
type Outbox struct {
	writer Writer
}

// NewOutbox creates an Outbox. A nil writer turns publishing into a logged no-op.
func NewOutbox(writer Writer) *Outbox {
	return &Outbox{writer: writer}
}

// Publish sends payload to the delivery pipeline.
func (o *Outbox) Publish(ctx context.Context, kind string, userID uuid.UUID, payload any) error {
	if o.writer == nil {
		logger.Log.Warnw("kafka writer is nil, skipping outbox publish", "kind", kind, "user_id", userID)
		return nil
	}

	value, err := json.Marshal(Envelope{Kind: kind, UserID: userID, Payload: payload, CreatedAt: time.Now().UTC()})
	if err != nil {
		logger.Log.Errorw("failed to marshal outbox envelope", "kind", kind, "error", err)
		return err
	}

	err = o.writer.WriteMessages(ctx, kafka.Message{Key: []byte(userID.String()), Value: value})
	if err != nil {
		logger.Log.Errorw("failed to publish outbox envelope", "kind", kind, "user_id", userID, "error", err)
		return err
	}

	logger.Log.Infow("outbox envelope published", "kind", kind, "user_id", userID)
	return nil
}
