package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Notification names written by the application.
const (
	NotificationUnreadMessageCount = "unread_message_count"
	NotificationTaskProgress       = "task_progress"
)

// NotificationDB is one entry of a user's append-only notification ledger.
type NotificationDB struct {
	ID        int64          `json:"-" db:"id"`
	UserID    uuid.UUID      `json:"-" db:"user_id"`
	Name      string         `json:"name" db:"name"`
	Payload   types.JSONText `json:"data" db:"payload_json"`
	Timestamp time.Time      `json:"-" db:"timestamp"`
}

// NotificationResponse is the wire shape of a notification. Timestamp is
// unix seconds with a fractional part.
type NotificationResponse struct {
	Name      string         `json:"name"`
	Data      types.JSONText `json:"data"`
	Timestamp float64        `json:"timestamp"`
}

// UnixSeconds converts t to fractional unix seconds.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// FromUnixSeconds is the inverse of UnixSeconds at microsecond precision.
func FromUnixSeconds(sec float64) time.Time {
	return time.UnixMicro(int64(sec * 1e6)).UTC()
}

// TaskProgressPayload is the data of a task_progress notification.
type TaskProgressPayload struct {
	TaskID   string `json:"task_id"`
	Progress int    `json:"progress"`
}
