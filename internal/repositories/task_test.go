package repositories

import (
	"context"
	"testing"

	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewTaskRepository(db, nil)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	task := &models.TaskDB{ID: "job-1", Name: "export_posts", Description: "Exporting posts...", UserID: alice}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.InProgressByName(ctx, alice, "export_posts")
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, "job-1", got.ID)
	}

	list, err := repo.InProgress(ctx, alice)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.MarkComplete(ctx, "job-1"))

	got, err = repo.InProgressByName(ctx, alice, "export_posts")
	assert.NoError(t, err)
	assert.Nil(t, got)

	byID, err := repo.GetByID(ctx, "job-1")
	assert.NoError(t, err)
	assert.True(t, byID.Complete)

	missing, err := repo.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
