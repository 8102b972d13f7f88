package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// GraphService manages who follows whom.
type GraphService struct {
	users   UserStore
	follows FollowStore
}

func NewGraphService(users UserStore, follows FollowStore) *GraphService {
	return &GraphService{users: users, follows: follows}
}

func (svc *GraphService) target(ctx context.Context, followerID uuid.UUID, username string) (uuid.UUID, error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, err
	}
	if user == nil {
		return uuid.Nil, ErrUserNotFound
	}
	if user.UserID == followerID {
		return uuid.Nil, ErrCannotFollowSelf
	}
	return user.UserID, nil
}

// Follow makes followerID follow username. Following twice is not an error.
func (svc *GraphService) Follow(ctx context.Context, followerID uuid.UUID, username string) error {
	followedID, err := svc.target(ctx, followerID, username)
	if err != nil {
		return err
	}
	if err := svc.follows.Follow(ctx, followerID, followedID); err != nil {
		logger.Log.Errorw("failed to follow", "user_id", followerID, "followed_id", followedID, "err", err)
		return err
	}
	return nil
}

// Unfollow removes the edge. Unfollowing a user not followed is not an error.
func (svc *GraphService) Unfollow(ctx context.Context, followerID uuid.UUID, username string) error {
	followedID, err := svc.target(ctx, followerID, username)
	if err != nil {
		return err
	}
	if err := svc.follows.Unfollow(ctx, followerID, followedID); err != nil {
		logger.Log.Errorw("failed to unfollow", "user_id", followerID, "followed_id", followedID, "err", err)
		return err
	}
	return nil
}

// IsFollowing reports whether a follows b.
func (svc *GraphService) IsFollowing(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return svc.follows.IsFollowing(ctx, a, b)
}
