package services

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGraphService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := NewMockUserStore(ctrl)
	follows := NewMockFollowStore(ctrl)
	svc := NewGraphService(users, follows)
	ctx := context.Background()

	alice := &models.UserDB{UserID: uuid.New(), Username: "alice"}
	bob := &models.UserDB{UserID: uuid.New(), Username: "bob"}

	t.Run("follow twice is not an error", func(t *testing.T) {
		users.EXPECT().GetByUsername(gomock.Any(), "bob").Return(bob, nil).Times(2)
		follows.EXPECT().Follow(gomock.Any(), alice.UserID, bob.UserID).Return(nil).Times(2)

		assert.NoError(t, svc.Follow(ctx, alice.UserID, "bob"))
		assert.NoError(t, svc.Follow(ctx, alice.UserID, "bob"))
	})

	t.Run("cannot follow self", func(t *testing.T) {
		users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(alice, nil).Times(2)

		assert.ErrorIs(t, svc.Follow(ctx, alice.UserID, "alice"), ErrCannotFollowSelf)
		assert.ErrorIs(t, svc.Unfollow(ctx, alice.UserID, "alice"), ErrCannotFollowSelf)
	})

	t.Run("unknown user", func(t *testing.T) {
		users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)
		assert.ErrorIs(t, svc.Follow(ctx, alice.UserID, "ghost"), ErrUserNotFound)
	})

	t.Run("unfollow", func(t *testing.T) {
		users.EXPECT().GetByUsername(gomock.Any(), "bob").Return(bob, nil)
		follows.EXPECT().Unfollow(gomock.Any(), alice.UserID, bob.UserID).Return(nil)
		assert.NoError(t, svc.Unfollow(ctx, alice.UserID, "bob"))
	})

	t.Run("is following", func(t *testing.T) {
		follows.EXPECT().IsFollowing(gomock.Any(), alice.UserID, bob.UserID).Return(true, nil)
		ok, err := svc.IsFollowing(ctx, alice.UserID, bob.UserID)
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}
