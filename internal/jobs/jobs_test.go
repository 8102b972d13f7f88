package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestDispatcher_Enqueue(t *testing.T) {
	userID := uuid.New()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("publishes job", func(t *testing.T) {
		w := &fakeWriter{}
		d := NewDispatcher(w)
		d.now = func() time.Time { return fixed }

		err := d.Enqueue(context.Background(), Job{ID: "job-1", Name: "export_posts", UserID: userID, Args: json.RawMessage(`{"x":1}`)})
		assert.NoError(t, err)
		assert.Len(t, w.msgs, 1)
		assert.Equal(t, userID.String(), string(w.msgs[0].Key))

		job, err := Decode(w.msgs[0])
		assert.NoError(t, err)
		assert.Equal(t, "job-1", job.ID)
		assert.Equal(t, "export_posts", job.Name)
		assert.Equal(t, userID, job.UserID)
		assert.JSONEq(t, `{"x":1}`, string(job.Args))
		assert.True(t, fixed.Equal(job.EnqueuedAt))
	})

	t.Run("writer error", func(t *testing.T) {
		d := NewDispatcher(&fakeWriter{err: errors.New("broker down")})
		err := d.Enqueue(context.Background(), Job{ID: "job-1", Name: "export_posts", UserID: userID})
		assert.Error(t, err)
	})

	t.Run("nil writer", func(t *testing.T) {
		d := NewDispatcher(nil)
		err := d.Enqueue(context.Background(), Job{ID: "job-1", Name: "export_posts", UserID: userID})
		assert.ErrorIs(t, err, ErrNoWriter)
	})
}

func TestOutbox_Publish(t *testing.T) {
	userID := uuid.New()

	t.Run("publishes envelope", func(t *testing.T) {
		w := &fakeWriter{}
		err := NewOutbox(w).Publish(context.Background(), "export_posts", userID, map[string]any{"posts": []string{}})
		assert.NoError(t, err)
		if assert.Len(t, w.msgs, 1) {
			var env struct {
				Kind    string          `json:"kind"`
				UserID  uuid.UUID       `json:"user_id"`
				Payload json.RawMessage `json:"payload"`
			}
			assert.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
			assert.Equal(t, "export_posts", env.Kind)
			assert.Equal(t, userID, env.UserID)
			assert.JSONEq(t, `{"posts":[]}`, string(env.Payload))
		}
	})

	t.Run("nil writer is a no-op", func(t *testing.T) {
		assert.NoError(t, NewOutbox(nil).Publish(context.Background(), "reset_password", userID, nil))
	})

	t.Run("writer error", func(t *testing.T) {
		err := NewOutbox(&fakeWriter{err: errors.New("broker down")}).Publish(context.Background(), "reset_password", userID, nil)
		assert.Error(t, err)
	})
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not json", value: "nope"},
		{name: "missing name", value: `{"id":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(kafka.Message{Value: []byte(tt.value)})
			assert.Error(t, err)
		})
	}
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "microblog.tasks")
	assert.Equal(t, "microblog.tasks", w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}

func TestMetaStore(t *testing.T) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	assert.NoError(t, err)
	defer container.Terminate(ctx)

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "6379")
	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", host, port.Int())})
	defer client.Close()

	store := NewMetaStore(client)

	_, ok, err := store.GetProgress(ctx, "unknown")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.SetProgress(ctx, "job-1", 40))
	progress, ok, err := store.GetProgress(ctx, "job-1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 40, progress)

	assert.NoError(t, client.Set(ctx, "job:job-2:progress", "garbage", 0).Err())
	_, _, err = store.GetProgress(ctx, "job-2")
	assert.Error(t, err)
}
