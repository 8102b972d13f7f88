// Package migrations holds the Postgres schema of the store of record.
package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// Schema is idempotent and safe to apply on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username VARCHAR(64) NOT NULL UNIQUE,
	email VARCHAR(120) NOT NULL UNIQUE,
	password_hash VARCHAR(128) NOT NULL,
	about_me VARCHAR(140) NOT NULL DEFAULT '',
	last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_message_read_time TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS followers (
	follower_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	followed_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	PRIMARY KEY (follower_id, followed_id)
);

CREATE INDEX IF NOT EXISTS idx_followers_followed_id ON followers(followed_id);

CREATE TABLE IF NOT EXISTS posts (
	id BIGSERIAL PRIMARY KEY,
	body VARCHAR(140) NOT NULL,
	user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	time_stamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	language VARCHAR(5) NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_posts_time_stamp ON posts(time_stamp);
CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);

CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	sender_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	recipient_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	body VARCHAR(140) NOT NULL,
	time_stamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id, time_stamp);

CREATE TABLE IF NOT EXISTS notifications (
	id BIGSERIAL PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	name VARCHAR(128) NOT NULL,
	payload_json JSONB NOT NULL DEFAULT '{}',
	timestamp TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_ts ON notifications(user_id, timestamp);

CREATE TABLE IF NOT EXISTS tasks (
	id VARCHAR(36) PRIMARY KEY,
	name VARCHAR(128) NOT NULL,
	description VARCHAR(128) NOT NULL DEFAULT '',
	user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	complete BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_complete ON tasks(user_id, complete);
`

// Up applies Schema.
func Up(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		logger.Log.Errorw("failed to apply schema", "error", err)
		return err
	}
	logger.Log.Infow("schema applied")
	return nil
}
