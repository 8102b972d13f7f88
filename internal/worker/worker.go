// Package worker consumes jobs from the tasks topic and runs them.
package worker

//go:generate mockgen -source=worker.go -destination=mock_worker.go -package=worker

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sbilibin2017/microblog/internal/jobs"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// Reader is the subset of *kafka.Reader the worker uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// HandlerFunc runs one job.
type HandlerFunc func(ctx context.Context, job jobs.Job) error

// Worker dispatches jobs to handlers registered by name.
type Worker struct {
	reader   Reader
	handlers map[string]HandlerFunc
}

// New creates a Worker reading from reader.
func New(reader Reader) *Worker {
	return &Worker{reader: reader, handlers: make(map[string]HandlerFunc)}
}

// NewKafkaReader creates a consumer-group reader on topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0,
	})
}

// Handle registers h for jobs named name.
func (w *Worker) Handle(name string, h HandlerFunc) {
	w.handlers[name] = h
}

// Run consumes until ctx is cancelled. Every fetched message is committed
// once handled, including undecodable ones and failed jobs: handlers
// report their own failures to the task owner.
func (w *Worker) Run(ctx context.Context) error {
	defer w.reader.Close()

	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Log.Errorw("failed to fetch job", "error", err)
			return err
		}

		w.process(ctx, msg)

		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Log.Errorw("failed to commit job", "offset", msg.Offset, "error", err)
			return err
		}
	}
}

func (w *Worker) process(ctx context.Context, msg kafka.Message) {
	job, err := jobs.Decode(msg)
	if err != nil {
		logger.Log.Errorw("dropping malformed job", "error", err)
		return
	}

	h, ok := w.handlers[job.Name]
	if !ok {
		logger.Log.Warnw("no handler for job", "job_id", job.ID, "name", job.Name)
		return
	}

	start := time.Now()
	if err := h(ctx, job); err != nil {
		logger.Log.Errorw("job failed", "job_id", job.ID, "name", job.Name, "error", err)
		return
	}
	logger.Log.Infow("job finished", "job_id", job.ID, "name", job.Name, "duration", time.Since(start))
}
