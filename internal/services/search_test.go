package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/search"
	"github.com/stretchr/testify/assert"
)

func TestSearchService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	index := NewMockSearchIndex(ctrl)
	posts := NewMockPostStore(ctrl)
	svc := NewSearchService(index, posts, 2)
	ctx := context.Background()

	t.Run("empty query never reaches the index", func(t *testing.T) {
		_, err := svc.Search(ctx, "  ?! ", 1)
		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("zero matches skip the store", func(t *testing.T) {
		index.EXPECT().Query(gomock.Any(), models.PostIndex, "hello", 1, 2).Return(nil, int64(0), nil)
		// no posts.GetByIDs expectation: calling it fails the test

		res, err := svc.Search(ctx, "hello", 1)
		assert.NoError(t, err)
		assert.Zero(t, res.Total)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
	})

	t.Run("hits are hydrated", func(t *testing.T) {
		index.EXPECT().Query(gomock.Any(), models.PostIndex, "hello", 1, 2).Return([]int64{9, 4}, int64(3), nil)
		posts.EXPECT().GetByIDs(gomock.Any(), []int64{9, 4}).Return([]models.PostDB{{ID: 9}, {ID: 4}}, nil)

		res, err := svc.Search(ctx, "hello", 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), res.Total)
		assert.Len(t, res.Items, 2)
		assert.True(t, res.HasNext)
		assert.False(t, res.HasPrev)
	})

	t.Run("index failure is user visible", func(t *testing.T) {
		index.EXPECT().Query(gomock.Any(), models.PostIndex, "hello", 2, 2).Return(nil, int64(0), errors.New("connection refused"))

		_, err := svc.Search(ctx, "hello", 2)
		assert.ErrorIs(t, err, ErrSearchUnavailable)
	})

	t.Run("index rejects query", func(t *testing.T) {
		index.EXPECT().Query(gomock.Any(), models.PostIndex, "x", 1, 2).Return(nil, int64(0), search.ErrEmptyQuery)
		_, err := svc.Search(ctx, "x", 1)
		assert.ErrorIs(t, err, ErrInvalidQuery)
	})
}

func TestSearchService_Reindex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	index := NewMockSearchIndex(ctrl)
	posts := NewMockPostStore(ctrl)
	svc := NewSearchService(index, posts, 10)

	batch := make([]models.PostDB, reindexBatch)
	for i := range batch {
		batch[i] = models.PostDB{ID: int64(i + 1), Body: "b"}
	}

	gomock.InOrder(
		posts.EXPECT().AfterID(gomock.Any(), int64(0), reindexBatch).Return(batch, nil),
		posts.EXPECT().AfterID(gomock.Any(), int64(reindexBatch), reindexBatch).Return([]models.PostDB{{ID: 1000, Body: "last"}}, nil),
	)
	index.EXPECT().Add(gomock.Any(), models.PostIndex, gomock.Any(), gomock.Any()).Return(nil).Times(reindexBatch + 1)

	n, err := svc.Reindex(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, reindexBatch+1, n)
}
