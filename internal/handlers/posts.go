package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/microblog/internal/models"
)

// PostPage is one page of posts
// swagger:model PostPage
type PostPage = models.Page[models.PostDB]

// CreatePostRequest is the body of a new post
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// required: true
	// maxLength: 140
	Body string `json:"body"`
}

// NewFeedHandler returns the caller's home feed: their own posts and the posts of users they follow.
// @Summary Home feed
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} handlers.PostPage
// @Failure 401 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /index [get]
func NewFeedHandler(svc PostReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		page, err := svc.FollowedPosts(r.Context(), userID, pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

// NewExploreHandler returns every post, newest first.
// @Summary Explore
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} handlers.PostPage
// @Security BearerAuth
// @Router /explore [get]
func NewExploreHandler(svc PostReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Explore(r.Context(), pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

// NewCreatePostHandler returns an HTTP handler that publishes a post.
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body handlers.CreatePostRequest true "Post"
// @Success 201 {object} models.PostDB
// @Failure 400 {object} handlers.ErrorResponse "Empty or too long body"
// @Failure 401 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /index [post]
func NewCreatePostHandler(svc PostWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req CreatePostRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		post, err := svc.CreatePost(r.Context(), userID, req.Body)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}

// NewDeletePostHandler returns an HTTP handler that deletes one of the caller's posts.
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} handlers.MessageResponse
// @Failure 403 {object} handlers.ErrorResponse "Not the author"
// @Failure 404 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /post/{id} [delete]
func NewDeletePostHandler(svc PostWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid post id")
			return
		}

		if err := svc.DeletePost(r.Context(), userID, postID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Post deleted"})
	}
}
