package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/uow"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "6379")

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", host, port.Int())})
	assert.NoError(t, client.Ping(ctx).Err())

	teardown := func() {
		client.Close()
		container.Terminate(ctx)
	}
	return client, teardown
}

func TestRedisIndex(t *testing.T) {
	client, teardown := setupRedisContainer(t)
	defer teardown()

	ix := NewRedisIndex(client)
	ctx := context.Background()

	assert.NoError(t, ix.Ping(ctx))
	assert.NoError(t, ix.Add(ctx, "post", 1, map[string]string{"body": "hello world"}))
	assert.NoError(t, ix.Add(ctx, "post", 2, map[string]string{"body": "hello gophers"}))
	assert.NoError(t, ix.Add(ctx, "post", 3, map[string]string{"body": "goodbye world"}))

	tests := []struct {
		name      string
		query     string
		page      int
		perPage   int
		wantIDs   []int64
		wantTotal int64
	}{
		{name: "single term newest first", query: "hello", page: 1, perPage: 10, wantIDs: []int64{2, 1}, wantTotal: 2},
		{name: "all terms must match", query: "hello world", page: 1, perPage: 10, wantIDs: []int64{1}, wantTotal: 1},
		{name: "case insensitive", query: "WORLD", page: 1, perPage: 10, wantIDs: []int64{3, 1}, wantTotal: 2},
		{name: "second page", query: "hello", page: 2, perPage: 1, wantIDs: []int64{1}, wantTotal: 2},
		{name: "page past end", query: "hello", page: 5, perPage: 10, wantIDs: []int64{}, wantTotal: 2},
		{name: "no match", query: "nothing", page: 1, perPage: 10, wantIDs: []int64{}, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, total, err := ix.Query(ctx, "post", tt.query, tt.page, tt.perPage)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, total)
		})
	}

	t.Run("empty query", func(t *testing.T) {
		_, _, err := ix.Query(ctx, "post", " !! ", 1, 10)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("upsert drops stale terms", func(t *testing.T) {
		assert.NoError(t, ix.Add(ctx, "post", 3, map[string]string{"body": "farewell"}))
		ids, total, err := ix.Query(ctx, "post", "goodbye", 1, 10)
		assert.NoError(t, err)
		assert.Empty(t, ids)
		assert.Zero(t, total)

		ids, _, err = ix.Query(ctx, "post", "farewell", 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, []int64{3}, ids)
	})

	t.Run("remove unknown id", func(t *testing.T) {
		assert.NoError(t, ix.Remove(ctx, "post", 999))
	})
}

func TestRedisIndex_CommittedChangesAreSearchable(t *testing.T) {
	client, teardown := setupRedisContainer(t)
	defer teardown()

	ix := NewRedisIndex(client)
	ctx := context.Background()
	post := &models.PostDB{ID: 42, Body: "hello"}

	created := uow.New()
	created.Added(post)
	assert.NoError(t, created.Snapshot().Apply(ctx, ix))

	ids, total, err := ix.Query(ctx, models.PostIndex, "hello", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{42}, ids)

	deleted := uow.New()
	deleted.Deleted(post)
	assert.NoError(t, deleted.Snapshot().Apply(ctx, ix))

	ids, total, err = ix.Query(ctx, models.PostIndex, "hello", 1, 10)
	assert.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, ids)
}
