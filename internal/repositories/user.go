package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/models"
)

const userColumns = `user_id, username, email, password_hash, about_me, last_seen, last_message_read_time, created_at`

// UserRepository reads and writes the users table.
type UserRepository struct {
	base
}

func NewUserRepository(db *sqlx.DB, txGetter TxGetter) *UserRepository {
	return &UserRepository{base{db: db, txGetter: txGetter}}
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*models.UserDB, error) {
	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, args...)

	logQuery(query, args, user.UserID, err)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns nil when no user has id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
}

// GetByUsername returns nil when no user has username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail returns nil when no user has email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByUsernameOrEmail returns a user matching either value, nil if none.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error) {
	return r.getOne(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1 OR email = $2
		LIMIT 1
	`, username, email)
}

// Create inserts a user and returns its id.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING user_id
	`
	args := []any{username, email, "[redacted]"}

	var id uuid.UUID
	err := sqlx.GetContext(ctx, r.executor(ctx), &id, query, username, email, passwordHash)

	logQuery(query, args, id, err)

	return id, err
}

// UpdateProfile sets username and about-me.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username, aboutMe string) error {
	const query = `UPDATE users SET username = $2, about_me = $3 WHERE user_id = $1`
	args := []any{id, username, aboutMe}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}

// UpdatePassword replaces the stored hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE user_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, id, passwordHash)
	logQuery(query, []any{id, "[redacted]"}, rowsAffected(res), err)
	return err
}

// UpdateLastSeen stamps the user's last activity.
func (r *UserRepository) UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_seen = $2 WHERE user_id = $1`
	args := []any{id, at}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}

// UpdateLastMessageReadTime stamps when the user last opened their inbox.
func (r *UserRepository) UpdateLastMessageReadTime(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_message_read_time = $2 WHERE user_id = $1`
	args := []any{id, at}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}
