// Package jobs hands background work to the worker over Kafka and keeps
// per-job metadata in Redis.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Job is the envelope published on the tasks topic.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	UserID     uuid.UUID       `json:"user_id"`
	Args       json.RawMessage `json:"args,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Decode parses a Kafka message produced by Dispatcher.
func Decode(msg kafka.Message) (Job, error) {
	var job Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return Job{}, fmt.Errorf("decode job at offset %d: %w", msg.Offset, err)
	}
	if job.ID == "" || job.Name == "" {
		return Job{}, fmt.Errorf("decode job at offset %d: missing id or name", msg.Offset)
	}
	return job, nil
}
