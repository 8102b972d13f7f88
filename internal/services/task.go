package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/jobs"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/models"
)

// TaskService launches background tasks and tracks their progress.
type TaskService struct {
	tasks      TaskStore
	dispatcher JobDispatcher
	progress   ProgressStore
	notifier   Notifier
	newID      func() string
}

func NewTaskService(tasks TaskStore, dispatcher JobDispatcher, progress ProgressStore, notifier Notifier) *TaskService {
	return &TaskService{tasks: tasks, dispatcher: dispatcher, progress: progress, notifier: notifier, newID: uuid.NewString}
}

// LaunchTask records a task and hands it to the worker. At most one task
// of a given name runs per user. The task row must be visible to the
// worker before the job is, so ctx should not carry a transaction.
func (svc *TaskService) LaunchTask(ctx context.Context, userID uuid.UUID, name, description string, args json.RawMessage) (*models.TaskDB, error) {
	running, err := svc.tasks.InProgressByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, ErrTaskInProgress
	}

	task := &models.TaskDB{ID: svc.newID(), Name: name, Description: description, UserID: userID}
	if err := svc.tasks.Create(ctx, task); err != nil {
		logger.Log.Errorw("failed to create task", "user_id", userID, "name", name, "err", err)
		return nil, err
	}

	// Progress without metadata reads as 100.
	if err := svc.progress.SetProgress(ctx, task.ID, 0); err != nil {
		logger.Log.Warnw("failed to seed job progress", "task_id", task.ID, "err", err)
	}

	if err := svc.dispatcher.Enqueue(ctx, jobs.Job{ID: task.ID, Name: name, UserID: userID, Args: args}); err != nil {
		logger.Log.Errorw("failed to enqueue task", "task_id", task.ID, "err", err)
		if mErr := svc.tasks.MarkComplete(ctx, task.ID); mErr != nil {
			logger.Log.Errorw("failed to close unenqueued task", "task_id", task.ID, "err", mErr)
		}
		return nil, err
	}
	return task, nil
}

// GetTaskInProgress returns the running task of userID named name, or nil.
func (svc *TaskService) GetTaskInProgress(ctx context.Context, userID uuid.UUID, name string) (*models.TaskDB, error) {
	return svc.tasks.InProgressByName(ctx, userID, name)
}

// TasksInProgress lists the running tasks of userID with live progress.
func (svc *TaskService) TasksInProgress(ctx context.Context, userID uuid.UUID) ([]models.TaskStatus, error) {
	tasks, err := svc.tasks.InProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.TaskStatus, 0, len(tasks))
	for _, t := range tasks {
		p, err := svc.Progress(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.TaskStatus{TaskDB: t, Progress: p})
	}
	return out, nil
}

// Progress returns the percentage reported by the job. A job without
// metadata counts as finished.
func (svc *TaskService) Progress(ctx context.Context, taskID string) (int, error) {
	p, ok, err := svc.progress.GetProgress(ctx, taskID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 100, nil
	}
	return p, nil
}

// SetTaskProgress records progress, notifies the owner and marks the task
// complete at 100. The ledger write and completion flag join the caller's
// transaction.
func (svc *TaskService) SetTaskProgress(ctx context.Context, taskID string, userID uuid.UUID, progress int) error {
	if err := svc.progress.SetProgress(ctx, taskID, progress); err != nil {
		logger.Log.Warnw("failed to store job progress", "task_id", taskID, "err", err)
	}

	payload := models.TaskProgressPayload{TaskID: taskID, Progress: progress}
	if _, err := svc.notifier.AddNotification(ctx, userID, models.NotificationTaskProgress, payload); err != nil {
		return err
	}

	if progress >= 100 {
		if err := svc.tasks.MarkComplete(ctx, taskID); err != nil {
			logger.Log.Errorw("failed to mark task complete", "task_id", taskID, "err", err)
			return err
		}
	}
	return nil
}
