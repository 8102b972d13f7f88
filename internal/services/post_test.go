package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPostService_CreatePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := NewMockPostStore(ctrl)
	detector := NewMockLanguageDetector(ctrl)
	svc := NewPostService(NewMockUserStore(ctrl), posts, detector, 10)
	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	userID := uuid.New()

	tests := []struct {
		name    string
		body    string
		setup   func()
		wantErr error
	}{
		{name: "empty", body: "   ", setup: func() {}, wantErr: ErrEmptyBody},
		{name: "too long", body: strings.Repeat("я", 141), setup: func() {}, wantErr: ErrBodyTooLong},
		{
			name: "exactly 140 runes",
			body: strings.Repeat("я", 140),
			setup: func() {
				detector.EXPECT().Detect(gomock.Any()).Return("ru")
				posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "stores detected language",
			body: " hello everyone out there ",
			setup: func() {
				detector.EXPECT().Detect("hello everyone out there").Return("en")
				posts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *models.PostDB) error {
					assert.Equal(t, "hello everyone out there", p.Body)
					assert.Equal(t, userID, p.UserID)
					assert.Equal(t, "en", p.Language)
					assert.True(t, fixed.Equal(p.Timestamp))
					p.ID = 7
					return nil
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			post, err := svc.CreatePost(context.Background(), userID, tt.body)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, post)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, post)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := NewMockPostStore(ctrl)
	svc := NewPostService(NewMockUserStore(ctrl), posts, NewMockLanguageDetector(ctrl), 10)
	owner := uuid.New()
	post := &models.PostDB{ID: 5, UserID: owner}

	posts.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
	assert.ErrorIs(t, svc.DeletePost(context.Background(), owner, 1), ErrPostNotFound)

	posts.EXPECT().GetByID(gomock.Any(), int64(5)).Return(post, nil)
	assert.ErrorIs(t, svc.DeletePost(context.Background(), uuid.New(), 5), ErrForbidden)

	posts.EXPECT().GetByID(gomock.Any(), int64(5)).Return(post, nil)
	posts.EXPECT().Delete(gomock.Any(), post).Return(nil)
	assert.NoError(t, svc.DeletePost(context.Background(), owner, 5))
}

func TestPostService_Pagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := NewMockUserStore(ctrl)
	posts := NewMockPostStore(ctrl)
	svc := NewPostService(users, posts, NewMockLanguageDetector(ctrl), 2)
	alice := &models.UserDB{UserID: uuid.New(), Username: "alice"}
	three := []models.PostDB{{ID: 3}, {ID: 2}, {ID: 1}}
	ctx := context.Background()

	t.Run("feed first page", func(t *testing.T) {
		posts.EXPECT().FollowedPosts(gomock.Any(), alice.UserID, 3, 0).Return(three, nil)
		page, err := svc.FollowedPosts(ctx, alice.UserID, 0)
		assert.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Items, 2)
		assert.True(t, page.HasNext)
		assert.False(t, page.HasPrev)
	})

	t.Run("user posts second page", func(t *testing.T) {
		users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(alice, nil)
		posts.EXPECT().ByAuthor(gomock.Any(), alice.UserID, 3, 2).Return(three[2:], nil)
		page, err := svc.UserPosts(ctx, "alice", 2)
		assert.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.False(t, page.HasNext)
		assert.True(t, page.HasPrev)
	})

	t.Run("user posts unknown user", func(t *testing.T) {
		users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)
		_, err := svc.UserPosts(ctx, "ghost", 1)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("explore", func(t *testing.T) {
		posts.EXPECT().Explore(gomock.Any(), 3, 4).Return(nil, nil)
		page, err := svc.Explore(ctx, 3)
		assert.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
	})
}
