package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageDB represents a private message. Sender is the joined username.
type MessageDB struct {
	ID          int64     `json:"id" db:"id"`
	SenderID    uuid.UUID `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id" db:"recipient_id"`
	Sender      string    `json:"sender" db:"sender"`
	Body        string    `json:"body" db:"body"`
	Timestamp   time.Time `json:"time_stamp" db:"time_stamp"`
}
