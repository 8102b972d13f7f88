package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/jobs"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/models"
)

// PostLister returns an author's posts, oldest first.
type PostLister interface {
	ByAuthorAsc(ctx context.Context, userID uuid.UUID) ([]models.PostDB, error)
}

// ProgressReporter records task progress for the owner.
type ProgressReporter interface {
	SetTaskProgress(ctx context.Context, taskID string, userID uuid.UUID, progress int) error
}

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher hands a document off for delivery.
type Publisher interface {
	Publish(ctx context.Context, kind string, userID uuid.UUID, payload any) error
}

// ExportedPost is one entry of a posts export.
type ExportedPost struct {
	Body      string    `json:"body"`
	Timestamp time.Time `json:"time_stamp"`
}

// Export is the document published for an export_posts job.
type Export struct {
	Posts []ExportedPost `json:"posts"`
}

// NewExportPosts returns the export_posts handler. Progress stays below
// 100 until the export is published; any failure, panics included, forces
// progress to 100 so the task is not left running.
func NewExportPosts(posts PostLister, progress ProgressReporter, tr Transactor, out Publisher) HandlerFunc {
	report := func(ctx context.Context, job jobs.Job, p int) error {
		return tr.WithinTx(ctx, func(ctx context.Context) error {
			return progress.SetTaskProgress(ctx, job.ID, job.UserID, p)
		})
	}

	return func(ctx context.Context, job jobs.Job) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("export panicked: %v", rec)
			}
			if err != nil {
				logger.Log.Errorw("unhandled error in export", "job_id", job.ID, "user_id", job.UserID, "error", err)
				if rerr := report(ctx, job, 100); rerr != nil {
					logger.Log.Errorw("failed to close task", "job_id", job.ID, "error", rerr)
				}
			}
		}()

		if err := report(ctx, job, 0); err != nil {
			return err
		}

		list, err := posts.ByAuthorAsc(ctx, job.UserID)
		if err != nil {
			return err
		}

		doc := Export{Posts: make([]ExportedPost, 0, len(list))}
		for i, p := range list {
			doc.Posts = append(doc.Posts, ExportedPost{Body: p.Body, Timestamp: p.Timestamp})
			if err := report(ctx, job, min(100*(i+1)/len(list), 99)); err != nil {
				return err
			}
		}

		if err := out.Publish(ctx, models.TaskExportPosts, job.UserID, doc); err != nil {
			return err
		}

		return report(ctx, job, 100)
	}
}
