package handlers

//go:generate mockgen -source=interfaces.go -destination=mock_handlers.go -package=handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/services"
)

// Registerer creates accounts.
type Registerer interface {
	Register(ctx context.Context, username, email, password string) (uuid.UUID, error)
}

// Loginer exchanges credentials for a bearer token.
type Loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// PasswordResetter runs the password reset flow.
type PasswordResetter interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// PostWriter creates and deletes posts.
type PostWriter interface {
	CreatePost(ctx context.Context, userID uuid.UUID, body string) (*models.PostDB, error)
	DeletePost(ctx context.Context, userID uuid.UUID, postID int64) error
}

// PostReader lists posts.
type PostReader interface {
	FollowedPosts(ctx context.Context, userID uuid.UUID, page int) (models.Page[models.PostDB], error)
	UserPosts(ctx context.Context, username string, page int) (models.Page[models.PostDB], error)
	Explore(ctx context.Context, page int) (models.Page[models.PostDB], error)
}

// ProfileService reads and edits profiles.
type ProfileService interface {
	GetProfile(ctx context.Context, viewerID uuid.UUID, username string) (*models.Profile, error)
	EditProfile(ctx context.Context, userID uuid.UUID, username, aboutMe string) error
}

// Follower edits the social graph.
type Follower interface {
	Follow(ctx context.Context, followerID uuid.UUID, username string) error
	Unfollow(ctx context.Context, followerID uuid.UUID, username string) error
}

// Messenger sends and reads private messages.
type Messenger interface {
	SendMessage(ctx context.Context, senderID uuid.UUID, recipient, body string) (*models.MessageDB, error)
	Messages(ctx context.Context, userID uuid.UUID, page int) (models.Page[models.MessageDB], error)
	NewMessageCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

// NotificationReader polls a user's notifications.
type NotificationReader interface {
	NotificationsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.NotificationDB, error)
}

// TaskManager launches and lists background tasks.
type TaskManager interface {
	LaunchTask(ctx context.Context, userID uuid.UUID, name, description string, args json.RawMessage) (*models.TaskDB, error)
	TasksInProgress(ctx context.Context, userID uuid.UUID) ([]models.TaskStatus, error)
}

// Searcher runs full-text queries over posts.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (services.SearchResult, error)
}

// Reindexer rebuilds the search index from the database.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}
