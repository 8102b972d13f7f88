package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/uow"
)

const postSelect = `
	SELECT p.id, p.body, p.user_id, u.username AS author, p.time_stamp, p.language
	FROM posts p
	JOIN users u ON u.user_id = p.user_id
`

// PostRepository reads and writes posts. Writes register the post with
// the unit of work carried by ctx so the search index follows the commit.
type PostRepository struct {
	base
}

func NewPostRepository(db *sqlx.DB, txGetter TxGetter) *PostRepository {
	return &PostRepository{base{db: db, txGetter: txGetter}}
}

// Create inserts post and fills its ID.
func (r *PostRepository) Create(ctx context.Context, post *models.PostDB) error {
	const query = `
		INSERT INTO posts (body, user_id, time_stamp, language)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	args := []any{post.Body, post.UserID, post.Timestamp, post.Language}

	err := sqlx.GetContext(ctx, r.executor(ctx), &post.ID, query, args...)
	logQuery(query, args, post.ID, err)
	if err != nil {
		return err
	}

	uow.TrackAdded(ctx, post)
	return nil
}

// Delete removes post.
func (r *PostRepository) Delete(ctx context.Context, post *models.PostDB) error {
	const query = `DELETE FROM posts WHERE id = $1`
	args := []any{post.ID}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	if err != nil {
		return err
	}

	uow.TrackDeleted(ctx, post)
	return nil
}

// GetByID returns nil when the post does not exist.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.PostDB, error) {
	query := postSelect + ` WHERE p.id = $1`

	var post models.PostDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &post, query, id)
	logQuery(query, []any{id}, post.ID, err)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]models.PostDB, error) {
	var posts []models.PostDB
	err := sqlx.SelectContext(ctx, r.executor(ctx), &posts, query, args...)
	logQuery(query, args, len(posts), err)
	return posts, err
}

// FollowedPosts returns the home feed of userID: posts by everyone they
// follow plus their own, newest first.
func (r *PostRepository) FollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PostDB, error) {
	return r.list(ctx, postSelect+`
		WHERE p.user_id = $1
		   OR p.user_id IN (SELECT followed_id FROM followers WHERE follower_id = $1)
		ORDER BY p.time_stamp DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

// ByAuthor returns the posts of userID, newest first.
func (r *PostRepository) ByAuthor(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PostDB, error) {
	return r.list(ctx, postSelect+`
		WHERE p.user_id = $1
		ORDER BY p.time_stamp DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

// ByAuthorAsc returns every post of userID, oldest first.
func (r *PostRepository) ByAuthorAsc(ctx context.Context, userID uuid.UUID) ([]models.PostDB, error) {
	return r.list(ctx, postSelect+`
		WHERE p.user_id = $1
		ORDER BY p.time_stamp ASC, p.id ASC
	`, userID)
}

// Explore returns all posts, newest first.
func (r *PostRepository) Explore(ctx context.Context, limit, offset int) ([]models.PostDB, error) {
	return r.list(ctx, postSelect+`
		ORDER BY p.time_stamp DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

// GetByIDs returns the posts with the given ids ordered by id descending.
// Unknown ids are skipped.
func (r *PostRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.PostDB, error) {
	if len(ids) == 0 {
		return []models.PostDB{}, nil
	}

	query, args, err := sqlx.In(postSelect+` WHERE p.id IN (?) ORDER BY p.id DESC`, ids)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r.db.Rebind(query), args...)
}

// AfterID returns up to limit posts with id greater than afterID in id
// order, for walking the whole table in batches.
func (r *PostRepository) AfterID(ctx context.Context, afterID int64, limit int) ([]models.PostDB, error) {
	return r.list(ctx, postSelect+`
		WHERE p.id > $1
		ORDER BY p.id ASC
		LIMIT $2
	`, afterID, limit)
}

// CountByAuthor returns how many posts userID has written.
func (r *PostRepository) CountByAuthor(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM posts WHERE user_id = $1`

	var n int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &n, query, userID)
	logQuery(query, []any{userID}, n, err)
	return n, err
}
