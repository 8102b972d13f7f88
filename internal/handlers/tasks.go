package handlers

import (
	"net/http"

	"github.com/sbilibin2017/microblog/internal/models"
)

// NewExportPostsHandler returns an HTTP handler that launches the export_posts task.
// @Summary Export posts
// @Description Starts a background export of the caller's posts. Only one export may run at a time.
// @Tags tasks
// @Produce json
// @Success 202 {object} models.TaskDB
// @Failure 409 {object} handlers.ErrorResponse "An export is already in progress"
// @Security BearerAuth
// @Router /export_posts [post]
func NewExportPostsHandler(svc TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		task, err := svc.LaunchTask(r.Context(), userID, models.TaskExportPosts, "Exporting posts...", nil)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusAccepted, task)
	}
}

// NewTasksHandler returns the caller's tasks in progress.
// @Summary Tasks in progress
// @Tags tasks
// @Produce json
// @Success 200 {array} models.TaskStatus
// @Security BearerAuth
// @Router /tasks [get]
func NewTasksHandler(svc TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		tasks, err := svc.TasksInProgress(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if tasks == nil {
			tasks = []models.TaskStatus{}
		}

		writeJSON(w, http.StatusOK, tasks)
	}
}
