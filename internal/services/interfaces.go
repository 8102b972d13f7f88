package services

//go:generate mockgen -source=interfaces.go -destination=mock_services.go -package=services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/jobs"
	"github.com/sbilibin2017/microblog/internal/models"
)

// UserStore is the users table.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error)
	Create(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, aboutMe string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateLastMessageReadTime(ctx context.Context, id uuid.UUID, at time.Time) error
}

// FollowStore is the follow relation.
type FollowStore interface {
	Follow(ctx context.Context, followerID, followedID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

// PostStore is the posts table.
type PostStore interface {
	Create(ctx context.Context, post *models.PostDB) error
	Delete(ctx context.Context, post *models.PostDB) error
	GetByID(ctx context.Context, id int64) (*models.PostDB, error)
	FollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PostDB, error)
	ByAuthor(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PostDB, error)
	Explore(ctx context.Context, limit, offset int) ([]models.PostDB, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.PostDB, error)
	AfterID(ctx context.Context, afterID int64, limit int) ([]models.PostDB, error)
}

// MessageStore is the messages table.
type MessageStore interface {
	Create(ctx context.Context, msg *models.MessageDB) error
	Received(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.MessageDB, error)
	CountSince(ctx context.Context, recipientID uuid.UUID, since *time.Time) (int64, error)
}

// NotificationStore is the notification ledger.
type NotificationStore interface {
	Add(ctx context.Context, n *models.NotificationDB) error
	Since(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.NotificationDB, error)
}

// TaskStore is the tasks table.
type TaskStore interface {
	Create(ctx context.Context, task *models.TaskDB) error
	GetByID(ctx context.Context, id string) (*models.TaskDB, error)
	InProgress(ctx context.Context, userID uuid.UUID) ([]models.TaskDB, error)
	InProgressByName(ctx context.Context, userID uuid.UUID, name string) (*models.TaskDB, error)
	MarkComplete(ctx context.Context, id string) error
}

// TokenIssuer issues bearer and password-reset tokens.
type TokenIssuer interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
	GenerateResetToken(ctx context.Context, userID uuid.UUID) (string, error)
	ParseResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

// LanguageDetector tags text with a language code.
type LanguageDetector interface {
	Detect(text string) string
}

// SearchIndex is the external full-text index.
type SearchIndex interface {
	Add(ctx context.Context, index string, id int64, fields map[string]string) error
	Query(ctx context.Context, index, query string, page, perPage int) ([]int64, int64, error)
}

// JobDispatcher hands jobs to the worker.
type JobDispatcher interface {
	Enqueue(ctx context.Context, job jobs.Job) error
}

// ProgressStore keeps live job progress.
type ProgressStore interface {
	SetProgress(ctx context.Context, jobID string, progress int) error
	GetProgress(ctx context.Context, jobID string) (int, bool, error)
}

// Outbox hands documents off for delivery outside the application.
type Outbox interface {
	Publish(ctx context.Context, kind string, userID uuid.UUID, payload any) error
}

// Notifier appends to a user's notification ledger.
type Notifier interface {
	AddNotification(ctx context.Context, userID uuid.UUID, name string, data any) (*models.NotificationDB, error)
}

