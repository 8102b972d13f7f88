package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const metaTTL = 24 * time.Hour

// MetaStore keeps job progress in Redis under job:<id>:progress.
type MetaStore struct {
	client redis.UniversalClient
}

// NewMetaStore creates a MetaStore.
func NewMetaStore(client redis.UniversalClient) *MetaStore {
	return &MetaStore{client: client}
}

func progressKey(jobID string) string {
	return fmt.Sprintf("job:%s:progress", jobID)
}

// SetProgress records progress for a job.
func (m *MetaStore) SetProgress(ctx context.Context, jobID string, progress int) error {
	return m.client.Set(ctx, progressKey(jobID), progress, metaTTL).Err()
}

// GetProgress returns the recorded progress. ok is false when the job has
// no metadata, either because it never reported or it expired.
func (m *MetaStore) GetProgress(ctx context.Context, jobID string) (progress int, ok bool, err error) {
	val, err := m.client.Get(ctx, progressKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	progress, err = strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt progress for job %s: %w", jobID, err)
	}
	return progress, true, nil
}
