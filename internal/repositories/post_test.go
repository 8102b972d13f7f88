package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/uow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodies(posts []models.PostDB) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Body
	}
	return out
}

func TestPostRepository_Feed(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	posts := NewPostRepository(db, nil)
	follows := NewFollowRepository(db, nil)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	write := func(user uuid.UUID, body string, minute int) {
		p := &models.PostDB{Body: body, UserID: user, Timestamp: base.Add(time.Duration(minute) * time.Minute)}
		require.NoError(t, posts.Create(ctx, p))
		assert.NotZero(t, p.ID)
	}
	write(alice, "alice one", 1)
	write(bob, "bob one", 2)
	write(carol, "carol one", 3)
	write(alice, "alice two", 4)

	require.NoError(t, follows.Follow(ctx, alice, bob))

	t.Run("feed has own and followed posts newest first", func(t *testing.T) {
		feed, err := posts.FollowedPosts(ctx, alice, 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, []string{"alice two", "bob one", "alice one"}, bodies(feed))
		assert.Equal(t, "bob", feed[1].Author)
	})

	t.Run("feed without follows has own posts only", func(t *testing.T) {
		feed, err := posts.FollowedPosts(ctx, carol, 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, []string{"carol one"}, bodies(feed))
	})

	t.Run("feed paging", func(t *testing.T) {
		feed, err := posts.FollowedPosts(ctx, alice, 2, 2)
		assert.NoError(t, err)
		assert.Equal(t, []string{"alice one"}, bodies(feed))
	})

	t.Run("by author", func(t *testing.T) {
		desc, err := posts.ByAuthor(ctx, alice, 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, []string{"alice two", "alice one"}, bodies(desc))

		asc, err := posts.ByAuthorAsc(ctx, alice)
		assert.NoError(t, err)
		assert.Equal(t, []string{"alice one", "alice two"}, bodies(asc))

		n, err := posts.CountByAuthor(ctx, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("explore", func(t *testing.T) {
		all, err := posts.Explore(ctx, 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, []string{"alice two", "carol one", "bob one", "alice one"}, bodies(all))
	})

	t.Run("get by ids orders by id descending", func(t *testing.T) {
		all, err := posts.AfterID(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, all, 4)

		got, err := posts.GetByIDs(ctx, []int64{all[0].ID, all[2].ID, 999999})
		assert.NoError(t, err)
		assert.Equal(t, []string{"carol one", "alice one"}, bodies(got))

		empty, err := posts.GetByIDs(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, empty)

		rest, err := posts.AfterID(ctx, all[1].ID, 10)
		assert.NoError(t, err)
		assert.Len(t, rest, 2)
	})
}

func TestPostRepository_TracksUnitOfWork(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	alice := createUser(t, db, "alice")
	ctx := context.Background()

	tx, err := db.Beginx()
	require.NoError(t, err)

	u := uow.New()
	txCtx := uow.WithUnitOfWork(uow.WithTx(ctx, tx), u)
	repo := NewPostRepository(db, uow.TxFromContext)

	p := &models.PostDB{Body: "hello", UserID: alice, Timestamp: time.Now().UTC()}
	require.NoError(t, repo.Create(txCtx, p))

	// invisible outside the transaction until commit
	outside, err := NewPostRepository(db, nil).GetByID(ctx, p.ID)
	assert.NoError(t, err)
	assert.Nil(t, outside)

	require.NoError(t, repo.Delete(txCtx, p))
	require.NoError(t, tx.Commit())

	c := u.Snapshot()
	assert.Len(t, c.Added, 1)
	assert.Len(t, c.Deleted, 1)
	assert.Equal(t, p.ID, c.Added[0].IndexID())
}

