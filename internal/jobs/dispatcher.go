package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// ErrNoWriter is returned when the dispatcher has no Kafka writer.
var ErrNoWriter = errors.New("job dispatcher is not configured")

// Writer is the subset of *kafka.Writer the dispatcher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher publishes jobs on the tasks topic.
type Dispatcher struct {
	writer Writer
	now    func() time.Time
}

// NewDispatcher creates a Dispatcher. The writer's topic decides where jobs go.
func NewDispatcher(writer Writer) *Dispatcher {
	return &Dispatcher{writer: writer, now: time.Now}
}

// NewKafkaWriter returns a writer for topic that hashes on the message key
// so all jobs of one user land on the same partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Enqueue publishes job, keyed by user so one user's jobs stay ordered.
// EnqueuedAt is stamped here. Unlike outbox publishing, a failed enqueue is
// reported: the caller must not leave a task the worker will never see.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	if d.writer == nil {
		logger.Log.Warnw("kafka writer is nil, job not enqueued", "job_id", job.ID, "name", job.Name)
		return ErrNoWriter
	}

	job.EnqueuedAt = d.now().UTC()
	value, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.UserID.String()),
		Value: value,
	})
	logger.Log.Infow("job enqueued", "job_id", job.ID, "name", job.Name, "user_id", job.UserID, "error", err)
	return err
}
