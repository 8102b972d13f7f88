package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewFollowHandler returns an HTTP handler that follows a user.
// @Summary Follow a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse "Cannot follow yourself"
// @Failure 404 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /follow/{username} [post]
func NewFollowHandler(svc Follower) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		username := chi.URLParam(r, "username")

		if err := svc.Follow(r.Context(), userID, username); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "You are following " + username})
	}
}

// NewUnfollowHandler returns an HTTP handler that unfollows a user.
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /unfollow/{username} [post]
func NewUnfollowHandler(svc Follower) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		username := chi.URLParam(r, "username")

		if err := svc.Unfollow(r.Context(), userID, username); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "You are not following " + username})
	}
}
