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

const avatarSize = 128

// UserService serves profiles.
type UserService struct {
	users   UserStore
	follows FollowStore
	now     func() time.Time
}

func NewUserService(users UserStore, follows FollowStore) *UserService {
	return &UserService{users: users, follows: follows, now: time.Now}
}

// GetProfile returns the public profile of username as seen by viewerID.
func (svc *UserService) GetProfile(ctx context.Context, viewerID uuid.UUID, username string) (*models.Profile, error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "username", username, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	followers, err := svc.follows.CountFollowers(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	following, err := svc.follows.CountFollowing(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	isFollowing, err := svc.follows.IsFollowing(ctx, viewerID, user.UserID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		Username:       user.Username,
		AboutMe:        user.AboutMe,
		Avatar:         user.Avatar(avatarSize),
		LastSeen:       user.LastSeen,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}, nil
}

// EditProfile changes username and about-me of userID.
func (svc *UserService) EditProfile(ctx context.Context, userID uuid.UUID, username, aboutMe string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidInput
	}
	if utf8.RuneCountInString(aboutMe) > MaxTextLength {
		return ErrAboutMeTooLong
	}

	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if username != user.Username {
		taken, err := svc.users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken != nil {
			return ErrUserAlreadyExists
		}
	}

	if err := svc.users.UpdateProfile(ctx, userID, username, aboutMe); err != nil {
		logger.Log.Errorw("failed to update profile", "user_id", userID, "err", err)
		return err
	}
	return nil
}

// TouchLastSeen records activity of userID.
func (svc *UserService) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	return svc.users.UpdateLastSeen(ctx, userID, svc.now().UTC())
}
