package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/microblog/internal/models"
)

// UserResponse is a profile page: the user and a page of their posts
// swagger:model UserResponse
type UserResponse struct {
	Profile *models.Profile `json:"profile"`
	Posts   PostPage        `json:"posts"`
}

// NewUserHandler returns a user's profile together with their posts.
// @Summary User profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} handlers.UserResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /user/{username} [get]
func NewUserHandler(profiles ProfileService, posts PostReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, ok := callerID(w, r)
		if !ok {
			return
		}
		username := chi.URLParam(r, "username")

		profile, err := profiles.GetProfile(r.Context(), viewerID, username)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		page, err := posts.UserPosts(r.Context(), username, pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{Profile: profile, Posts: page})
	}
}

// EditProfileRequest changes the caller's username and about-me
// swagger:model EditProfileRequest
type EditProfileRequest struct {
	// required: true
	Username string `json:"username"`
	// maxLength: 140
	AboutMe string `json:"about_me"`
}

// NewEditProfileHandler returns an HTTP handler that edits the caller's profile.
// @Summary Edit profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body handlers.EditProfileRequest true "Profile"
// @Success 200 {object} handlers.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 409 {object} handlers.ErrorResponse "Username taken"
// @Security BearerAuth
// @Router /edit_profile [post]
func NewEditProfileHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req EditProfileRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.EditProfile(r.Context(), userID, req.Username, req.AboutMe); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Your changes have been saved"})
	}
}
