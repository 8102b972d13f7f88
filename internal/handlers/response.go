package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/middlewares"
	"github.com/sbilibin2017/microblog/internal/services"
)

// ErrorResponse is the body of every failed request.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// MessageResponse is the body of requests that only report success.
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorw("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

var errStatus = []struct {
	err    error
	status int
}{
	{services.ErrInvalidInput, http.StatusBadRequest},
	{services.ErrEmptyBody, http.StatusBadRequest},
	{services.ErrBodyTooLong, http.StatusBadRequest},
	{services.ErrAboutMeTooLong, http.StatusBadRequest},
	{services.ErrInvalidQuery, http.StatusBadRequest},
	{services.ErrCannotFollowSelf, http.StatusBadRequest},
	{services.ErrInvalidResetToken, http.StatusBadRequest},
	{services.ErrUserAlreadyExists, http.StatusConflict},
	{services.ErrTaskInProgress, http.StatusConflict},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrUserNotFound, http.StatusNotFound},
	{services.ErrPostNotFound, http.StatusNotFound},
	{services.ErrSearchUnavailable, http.StatusServiceUnavailable},
}

// writeServiceError maps a service error onto a status code. Unknown
// errors are logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			if e.status == http.StatusServiceUnavailable {
				logger.Log.Warnw("dependency unavailable", "err", err)
			}
			writeError(w, e.status, e.err.Error())
			return
		}
	}
	logger.Log.Errorw("internal server error", "err", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// callerID returns the authenticated user or writes a 401.
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := middlewares.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
