package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/stretchr/testify/assert"
)

// memLedger is an in-memory NotificationStore.
type memLedger struct {
	mu   sync.Mutex
	rows []models.NotificationDB
}

func (m *memLedger) Add(_ context.Context, n *models.NotificationDB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *n)
	return nil
}

func (m *memLedger) Since(_ context.Context, userID uuid.UUID, since time.Time) ([]models.NotificationDB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.NotificationDB
	for _, n := range m.rows {
		if n.UserID == userID && n.Timestamp.After(since) {
			out = append(out, n)
		}
	}
	return out, nil
}

func TestNotificationService_LatestWins(t *testing.T) {
	svc := NewNotificationService(&memLedger{})
	ctx := context.Background()
	u := uuid.New()

	for _, v := range []int{1, 2, 3} {
		_, err := svc.AddNotification(ctx, u, models.NotificationUnreadMessageCount, v)
		assert.NoError(t, err)
	}
	_, err := svc.AddNotification(ctx, u, models.NotificationTaskProgress, models.TaskProgressPayload{TaskID: "t", Progress: 10})
	assert.NoError(t, err)

	all, err := svc.NotificationsSince(ctx, u, models.FromUnixSeconds(0))
	assert.NoError(t, err)
	assert.Len(t, all, 4)

	var last models.NotificationDB
	for _, n := range all {
		if n.Name == models.NotificationUnreadMessageCount {
			last = n
		}
	}
	assert.JSONEq(t, "3", string(last.Payload))

	latest := LatestByName(all)
	assert.Len(t, latest, 2)
	assert.Equal(t, models.NotificationUnreadMessageCount, latest[0].Name)
	assert.JSONEq(t, "3", string(latest[0].Payload))
	assert.JSONEq(t, `{"task_id":"t","progress":10}`, string(latest[1].Payload))
}

func TestNotificationService_TimestampsStrictlyIncrease(t *testing.T) {
	svc := NewNotificationService(&memLedger{})
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	u := uuid.New()

	first, err := svc.AddNotification(context.Background(), u, "a", 1)
	assert.NoError(t, err)
	second, err := svc.AddNotification(context.Background(), u, "a", 2)
	assert.NoError(t, err)

	assert.True(t, second.Timestamp.After(first.Timestamp))

	// polling with the first timestamp still sees the second entry
	ns, err := svc.NotificationsSince(context.Background(), u, first.Timestamp)
	assert.NoError(t, err)
	assert.Len(t, ns, 1)
}

func TestNotificationService_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewMockNotificationStore(ctrl)
	svc := NewNotificationService(store)

	store.EXPECT().Add(gomock.Any(), gomock.Any()).Return(assert.AnError)
	_, err := svc.AddNotification(context.Background(), uuid.New(), "a", 1)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = svc.AddNotification(context.Background(), uuid.New(), "a", make(chan int))
	assert.Error(t, err)
}
