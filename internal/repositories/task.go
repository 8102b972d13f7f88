package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/models"
)

const taskColumns = `id, name, description, user_id, complete`

// TaskRepository stores user-launched background tasks.
type TaskRepository struct {
	base
}

func NewTaskRepository(db *sqlx.DB, txGetter TxGetter) *TaskRepository {
	return &TaskRepository{base{db: db, txGetter: txGetter}}
}

// Create inserts task.
func (r *TaskRepository) Create(ctx context.Context, task *models.TaskDB) error {
	const query = `
		INSERT INTO tasks (id, name, description, user_id, complete)
		VALUES ($1, $2, $3, $4, $5)
	`
	args := []any{task.ID, task.Name, task.Description, task.UserID, task.Complete}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}

// GetByID returns nil when no task has id.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.TaskDB, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task models.TaskDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &task, query, id)
	logQuery(query, []any{id}, task.Name, err)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// InProgress returns the incomplete tasks of userID.
func (r *TaskRepository) InProgress(ctx context.Context, userID uuid.UUID) ([]models.TaskDB, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND complete = FALSE ORDER BY name`
	args := []any{userID}

	var tasks []models.TaskDB
	err := sqlx.SelectContext(ctx, r.executor(ctx), &tasks, query, args...)
	logQuery(query, args, len(tasks), err)
	return tasks, err
}

// InProgressByName returns the incomplete task of userID named name, nil
// if there is none.
func (r *TaskRepository) InProgressByName(ctx context.Context, userID uuid.UUID, name string) (*models.TaskDB, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND name = $2 AND complete = FALSE
		LIMIT 1
	`
	args := []any{userID, name}

	var task models.TaskDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &task, query, args...)
	logQuery(query, args, task.ID, err)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// MarkComplete flags the task as finished.
func (r *TaskRepository) MarkComplete(ctx context.Context, id string) error {
	const query = `UPDATE tasks SET complete = TRUE WHERE id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	logQuery(query, []any{id}, rowsAffected(res), err)
	return err
}
