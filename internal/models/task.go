package models

import "github.com/google/uuid"

// Task names understood by the worker.
const TaskExportPosts = "export_posts"

// TaskDB is a user-launched background job. ID is the dispatcher job id.
type TaskDB struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	UserID      uuid.UUID `json:"-" db:"user_id"`
	Complete    bool      `json:"complete" db:"complete"`
}

// TaskStatus is a task together with its live progress.
type TaskStatus struct {
	TaskDB
	Progress int `json:"progress"`
}
