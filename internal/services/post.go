package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/models"
)

// PostService publishes posts and composes the feeds that list them.
type PostService struct {
	users    UserStore
	posts    PostStore
	detector LanguageDetector
	perPage  int
	now      func() time.Time
}

func NewPostService(users UserStore, posts PostStore, detector LanguageDetector, perPage int) *PostService {
	return &PostService{users: users, posts: posts, detector: detector, perPage: perPage, now: time.Now}
}

func validateText(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	if utf8.RuneCountInString(body) > MaxTextLength {
		return "", ErrBodyTooLong
	}
	return body, nil
}

// CreatePost stores a post by userID. The store registers it with the
// caller's unit of work, so it becomes searchable once the caller commits.
func (svc *PostService) CreatePost(ctx context.Context, userID uuid.UUID, body string) (*models.PostDB, error) {
	body, err := validateText(body)
	if err != nil {
		return nil, err
	}

	post := &models.PostDB{
		Body:      body,
		UserID:    userID,
		Timestamp: svc.now().UTC(),
		Language:  svc.detector.Detect(body),
	}
	if err := svc.posts.Create(ctx, post); err != nil {
		logger.Log.Errorw("failed to create post", "user_id", userID, "err", err)
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post written by userID.
func (svc *PostService) DeletePost(ctx context.Context, userID uuid.UUID, postID int64) error {
	post, err := svc.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return ErrForbidden
	}
	if err := svc.posts.Delete(ctx, post); err != nil {
		logger.Log.Errorw("failed to delete post", "user_id", userID, "post_id", postID, "err", err)
		return err
	}
	return nil
}

// FollowedPosts is the home feed of userID.
func (svc *PostService) FollowedPosts(ctx context.Context, userID uuid.UUID, page int) (models.Page[models.PostDB], error) {
	page, offset := models.Offset(page, svc.perPage)
	posts, err := svc.posts.FollowedPosts(ctx, userID, svc.perPage+1, offset)
	if err != nil {
		logger.Log.Errorw("failed to load feed", "user_id", userID, "err", err)
		return models.Page[models.PostDB]{}, err
	}
	return models.NewPage(posts, page, svc.perPage), nil
}

// UserPosts lists the posts of username.
func (svc *PostService) UserPosts(ctx context.Context, username string, page int) (models.Page[models.PostDB], error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		return models.Page[models.PostDB]{}, err
	}
	if user == nil {
		return models.Page[models.PostDB]{}, ErrUserNotFound
	}

	page, offset := models.Offset(page, svc.perPage)
	posts, err := svc.posts.ByAuthor(ctx, user.UserID, svc.perPage+1, offset)
	if err != nil {
		return models.Page[models.PostDB]{}, err
	}
	return models.NewPage(posts, page, svc.perPage), nil
}

// Explore lists every post.
func (svc *PostService) Explore(ctx context.Context, page int) (models.Page[models.PostDB], error) {
	page, offset := models.Offset(page, svc.perPage)
	posts, err := svc.posts.Explore(ctx, svc.perPage+1, offset)
	if err != nil {
		return models.Page[models.PostDB]{}, err
	}
	return models.NewPage(posts, page, svc.perPage), nil
}
