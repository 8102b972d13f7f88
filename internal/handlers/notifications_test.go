package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsHandler(t *testing.T) {
	userID := uuid.New()
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 500000000, time.UTC)

	tests := []struct {
		name         string
		target       string
		wantSince    time.Time
		expectedCode int
	}{
		{name: "no since", target: "/notifications", wantSince: time.Unix(0, 0).UTC(), expectedCode: http.StatusOK},
		{name: "fractional since", target: "/notifications?since=1704164645.25", wantSince: models.FromUnixSeconds(1704164645.25), expectedCode: http.StatusOK},
		{name: "invalid since", target: "/notifications?since=yesterday", expectedCode: http.StatusBadRequest},
		{name: "negative since", target: "/notifications?since=-1", expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := NewMockNotificationReader(ctrl)
			if tt.expectedCode == http.StatusOK {
				m.EXPECT().NotificationsSince(gomock.Any(), userID, tt.wantSince).Return([]models.NotificationDB{
					{Name: models.NotificationUnreadMessageCount, Payload: types.JSONText(`2`), Timestamp: stamp},
				}, nil)
			}

			rr := httptest.NewRecorder()
			NewNotificationsHandler(m)(rr, newRequest(http.MethodGet, tt.target, "", userID, nil))

			require.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode != http.StatusOK {
				return
			}
			var resp []models.NotificationResponse
			decodeBody(t, rr, &resp)
			require.Len(t, resp, 1)
			assert.Equal(t, models.NotificationUnreadMessageCount, resp[0].Name)
			assert.JSONEq(t, `2`, string(resp[0].Data))
			assert.InDelta(t, 1704164645.5, resp[0].Timestamp, 1e-6)
		})
	}
}
