package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/models"
)

// MessageService delivers private messages and tracks unread counts.
type MessageService struct {
	users    UserStore
	messages MessageStore
	notifier Notifier
	perPage  int
	now      func() time.Time
}

func NewMessageService(users UserStore, messages MessageStore, notifier Notifier, perPage int) *MessageService {
	return &MessageService{users: users, messages: messages, notifier: notifier, perPage: perPage, now: time.Now}
}

// SendMessage stores a message and appends the recipient's current unread
// count to their ledger.
func (svc *MessageService) SendMessage(ctx context.Context, senderID uuid.UUID, recipient, body string) (*models.MessageDB, error) {
	body, err := validateText(body)
	if err != nil {
		return nil, err
	}

	user, err := svc.users.GetByUsername(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	msg := &models.MessageDB{
		SenderID:    senderID,
		RecipientID: user.UserID,
		Body:        body,
		Timestamp:   svc.now().UTC(),
	}
	if err := svc.messages.Create(ctx, msg); err != nil {
		logger.Log.Errorw("failed to store message", "user_id", senderID, "err", err)
		return nil, err
	}

	count, err := svc.messages.CountSince(ctx, user.UserID, user.LastMessageReadTime)
	if err != nil {
		return nil, err
	}
	if _, err := svc.notifier.AddNotification(ctx, user.UserID, models.NotificationUnreadMessageCount, count); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages lists what userID received and marks the inbox read.
func (svc *MessageService) Messages(ctx context.Context, userID uuid.UUID, page int) (models.Page[models.MessageDB], error) {
	if err := svc.users.UpdateLastMessageReadTime(ctx, userID, svc.now().UTC()); err != nil {
		logger.Log.Errorw("failed to stamp inbox read", "user_id", userID, "err", err)
		return models.Page[models.MessageDB]{}, err
	}
	if _, err := svc.notifier.AddNotification(ctx, userID, models.NotificationUnreadMessageCount, 0); err != nil {
		return models.Page[models.MessageDB]{}, err
	}

	page, offset := models.Offset(page, svc.perPage)
	msgs, err := svc.messages.Received(ctx, userID, svc.perPage+1, offset)
	if err != nil {
		return models.Page[models.MessageDB]{}, err
	}
	return models.NewPage(msgs, page, svc.perPage), nil
}

// NewMessageCount counts messages userID received since last opening the inbox.
func (svc *MessageService) NewMessageCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	return svc.messages.CountSince(ctx, userID, user.LastMessageReadTime)
}
