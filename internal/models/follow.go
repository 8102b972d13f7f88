package models

import "github.com/google/uuid"

// FollowDB is one directed edge of the social graph: FollowerID follows FollowedID.
type FollowDB struct {
	FollowerID uuid.UUID `db:"follower_id"`
	FollowedID uuid.UUID `db:"followed_id"`
}
