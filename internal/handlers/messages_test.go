package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestSendMessageHandler(t *testing.T) {
	sender := uuid.New()

	tests := []struct {
		name         string
		msg          *models.MessageDB
		err          error
		expectedCode int
	}{
		{name: "sent", msg: &models.MessageDB{ID: 1, Body: "hey"}, expectedCode: http.StatusCreated},
		{name: "unknown recipient", err: services.ErrUserNotFound, expectedCode: http.StatusNotFound},
		{name: "empty", err: services.ErrEmptyBody, expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := NewMockMessenger(ctrl)
			m.EXPECT().SendMessage(gomock.Any(), sender, "bob", "hey").Return(tt.msg, tt.err)

			rr := httptest.NewRecorder()
			NewSendMessageHandler(m)(rr, newRequest(http.MethodPost, "/send_message/bob", `{"body":"hey"}`, sender, map[string]string{"username": "bob"}))
			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestMessagesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	m := NewMockMessenger(ctrl)
	m.EXPECT().Messages(gomock.Any(), userID, 1).Return(models.NewPage([]models.MessageDB{{ID: 2, Sender: "alice", Body: "hi"}}, 1, 10), nil)

	rr := httptest.NewRecorder()
	NewMessagesHandler(m)(rr, newRequest(http.MethodGet, "/messages", "", userID, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var page MessagePage
	decodeBody(t, rr, &page)
	assert.Equal(t, "alice", page.Items[0].Sender)
}

func TestUnreadCountHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	m := NewMockMessenger(ctrl)
	m.EXPECT().NewMessageCount(gomock.Any(), userID).Return(int64(3), nil)

	rr := httptest.NewRecorder()
	NewUnreadCountHandler(m)(rr, newRequest(http.MethodGet, "/messages/unread_count", "", userID, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":3}`, rr.Body.String())
}
