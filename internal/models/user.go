package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserDB represents a row of the users table.
type UserDB struct {
	UserID              uuid.UUID  `json:"id" db:"user_id"`
	Username            string     `json:"username" db:"username"`
	Email               string     `json:"-" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	AboutMe             string     `json:"about_me" db:"about_me"`
	LastSeen            time.Time  `json:"last_seen" db:"last_seen"`
	LastMessageReadTime *time.Time `json:"-" db:"last_message_read_time"` // nil until the inbox is first opened
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// Avatar returns an identicon URL derived from the lower-cased email.
func (u *UserDB) Avatar(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(sum[:]), size)
}

// Profile is the public view of a user shown on a profile page.
type Profile struct {
	Username       string    `json:"username"`
	AboutMe        string    `json:"about_me"`
	Avatar         string    `json:"avatar"`
	LastSeen       time.Time `json:"last_seen"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	IsFollowing    bool      `json:"is_following"`
}
