package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/microblog/internal/models"
)

// MessagePage is one page of received messages
// swagger:model MessagePage
type MessagePage = models.Page[models.MessageDB]

// SendMessageRequest is the body of a private message
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	// required: true
	// maxLength: 140
	Body string `json:"body"`
}

// UnreadCountResponse reports how many received messages are unread
// swagger:model UnreadCountResponse
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// NewSendMessageHandler returns an HTTP handler that sends a private message.
// @Summary Send a private message
// @Tags messages
// @Accept json
// @Produce json
// @Param username path string true "Recipient"
// @Param request body handlers.SendMessageRequest true "Message"
// @Success 201 {object} models.MessageDB
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse "Recipient not found"
// @Security BearerAuth
// @Router /send_message/{username} [post]
func NewSendMessageHandler(svc Messenger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req SendMessageRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		msg, err := svc.SendMessage(r.Context(), userID, chi.URLParam(r, "username"), req.Body)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, msg)
	}
}

// NewMessagesHandler returns the caller's received messages and marks them read.
// @Summary Received messages
// @Tags messages
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} handlers.MessagePage
// @Security BearerAuth
// @Router /messages [get]
func NewMessagesHandler(svc Messenger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		page, err := svc.Messages(r.Context(), userID, pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

// NewUnreadCountHandler returns the number of unread messages.
// @Summary Unread message count
// @Tags messages
// @Produce json
// @Success 200 {object} handlers.UnreadCountResponse
// @Security BearerAuth
// @Router /messages/unread_count [get]
func NewUnreadCountHandler(svc Messenger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		count, err := svc.NewMessageCount(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, UnreadCountResponse{Count: count})
	}
}
