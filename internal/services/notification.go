package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/models"
)

// NotificationService appends to and reads from notification ledgers.
type NotificationService struct {
	store NotificationStore
	now   func() time.Time

	mu   sync.Mutex
	last time.Time
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, now: time.Now}
}

// stamp returns a timestamp strictly after the previous one issued by this
// process, at the store's microsecond precision.
func (svc *NotificationService) stamp() time.Time {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	ts := svc.now().UTC().Truncate(time.Microsecond)
	if !ts.After(svc.last) {
		ts = svc.last.Add(time.Microsecond)
	}
	svc.last = ts
	return ts
}

// AddNotification appends a notification named name carrying data as JSON.
// Older entries with the same name stay in the ledger.
func (svc *NotificationService) AddNotification(ctx context.Context, userID uuid.UUID, name string, data any) (*models.NotificationDB, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	n := &models.NotificationDB{
		UserID:    userID,
		Name:      name,
		Payload:   types.JSONText(payload),
		Timestamp: svc.stamp(),
	}
	if err := svc.store.Add(ctx, n); err != nil {
		logger.Log.Errorw("failed to add notification", "user_id", userID, "name", name, "err", err)
		return nil, err
	}
	return n, nil
}

// NotificationsSince returns the notifications of userID strictly newer
// than since, oldest first.
func (svc *NotificationService) NotificationsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.NotificationDB, error) {
	ns, err := svc.store.Since(ctx, userID, since)
	if err != nil {
		logger.Log.Errorw("failed to read notifications", "user_id", userID, "err", err)
		return nil, err
	}
	return ns, nil
}

// LatestByName keeps the newest entry per name, ordered by timestamp.
func LatestByName(ns []models.NotificationDB) []models.NotificationDB {
	latest := make(map[string]models.NotificationDB, len(ns))
	for _, n := range ns {
		cur, ok := latest[n.Name]
		if !ok || !n.Timestamp.Before(cur.Timestamp) {
			latest[n.Name] = n
		}
	}

	out := make([]models.NotificationDB, 0, len(latest))
	for _, n := range latest {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
