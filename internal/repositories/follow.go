package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FollowRepository stores the directed follow relation.
type FollowRepository struct {
	base
}

func NewFollowRepository(db *sqlx.DB, txGetter TxGetter) *FollowRepository {
	return &FollowRepository{base{db: db, txGetter: txGetter}}
}

// Follow adds the edge follower -> followed. It is a no-op when the edge
// exists or both ids are the same user.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return nil
	}

	const query = `
		INSERT INTO followers (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`
	args := []any{followerID, followedID}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}

// Unfollow removes the edge if present.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	const query = `DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`
	args := []any{followerID, followedID}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}

// IsFollowing reports whether the edge follower -> followed exists.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2
		)
	`
	args := []any{followerID, followedID}

	var ok bool
	err := sqlx.GetContext(ctx, r.executor(ctx), &ok, query, args...)
	logQuery(query, args, ok, err)
	return ok, err
}

// CountFollowers returns how many users follow userID.
func (r *FollowRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM followers WHERE followed_id = $1`, userID)
}

// CountFollowing returns how many users userID follows.
func (r *FollowRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM followers WHERE follower_id = $1`, userID)
}

func (r *FollowRepository) count(ctx context.Context, query string, userID uuid.UUID) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &n, query, userID)
	logQuery(query, []any{userID}, n, err)
	return n, err
}
