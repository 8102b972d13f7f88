package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestFollowHandlers(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name         string
		follow       bool
		err          error
		expectedCode int
	}{
		{name: "follow", follow: true, expectedCode: http.StatusOK},
		{name: "follow self", follow: true, err: services.ErrCannotFollowSelf, expectedCode: http.StatusBadRequest},
		{name: "follow unknown", follow: true, err: services.ErrUserNotFound, expectedCode: http.StatusNotFound},
		{name: "unfollow", expectedCode: http.StatusOK},
		{name: "unfollow self", err: services.ErrCannotFollowSelf, expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := NewMockFollower(ctrl)
			params := map[string]string{"username": "bob"}
			rr := httptest.NewRecorder()

			if tt.follow {
				m.EXPECT().Follow(gomock.Any(), userID, "bob").Return(tt.err)
				NewFollowHandler(m)(rr, newRequest(http.MethodPost, "/follow/bob", "", userID, params))
			} else {
				m.EXPECT().Unfollow(gomock.Any(), userID, "bob").Return(tt.err)
				NewUnfollowHandler(m)(rr, newRequest(http.MethodPost, "/unfollow/bob", "", userID, params))
			}

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
