package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFollowRepository(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewFollowRepository(db, nil)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	t.Run("follow is idempotent", func(t *testing.T) {
		assert.NoError(t, repo.Follow(ctx, alice, bob))
		assert.NoError(t, repo.Follow(ctx, alice, bob))

		ok, err := repo.IsFollowing(ctx, alice, bob)
		assert.NoError(t, err)
		assert.True(t, ok)

		n, err := repo.CountFollowers(ctx, bob)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.CountFollowing(ctx, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("relation is directed", func(t *testing.T) {
		ok, err := repo.IsFollowing(ctx, bob, alice)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("self follow is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Follow(ctx, alice, alice))
		ok, err := repo.IsFollowing(ctx, alice, alice)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unfollow is idempotent", func(t *testing.T) {
		assert.NoError(t, repo.Unfollow(ctx, alice, bob))
		assert.NoError(t, repo.Unfollow(ctx, alice, bob))

		ok, err := repo.IsFollowing(ctx, alice, bob)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
