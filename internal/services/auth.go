package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// OutboxKindResetPassword tags password reset envelopes.
const OutboxKindResetPassword = "reset_password"

// AuthService handles registration, login and password resets.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	outbox Outbox
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users UserStore, tokens TokenIssuer, outbox Outbox) *AuthService {
	return &AuthService{users: users, tokens: tokens, outbox: outbox}
}

// Register creates an account with a bcrypt-hashed password.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return uuid.Nil, ErrInvalidInput
	}

	existing, err := svc.users.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return uuid.Nil, err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "username", username, "email", email)
		return uuid.Nil, ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return uuid.Nil, err
	}

	id, err := svc.users.Create(ctx, username, email, string(hashed))
	if err != nil {
		logger.Log.Errorw("failed to save user", "username", username, "err", err)
		return uuid.Nil, err
	}
	return id, nil
}

// Login checks the credentials and returns a bearer token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("login for unknown user", "username", username)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.tokens.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}
	return token, nil
}

// RequestPasswordReset issues a reset token for the account registered
// under email and hands it to the outbox for delivery. Unknown emails
// succeed silently.
func (svc *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := svc.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		logger.Log.Errorw("failed to get user by email", "err", err)
		return err
	}
	if user == nil {
		return nil
	}

	token, err := svc.tokens.GenerateResetToken(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate reset token", "user_id", user.UserID, "err", err)
		return err
	}

	return svc.outbox.Publish(ctx, OutboxKindResetPassword, user.UserID, map[string]string{
		"email":    user.Email,
		"username": user.Username,
		"token":    token,
	})
}

// ResetPassword sets a new password for the user a valid reset token was
// issued to. Every token problem yields ErrInvalidResetToken.
func (svc *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return ErrInvalidInput
	}

	userID, err := svc.tokens.ParseResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.users.UpdatePassword(ctx, user.UserID, string(hashed)); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", user.UserID, "err", err)
		return err
	}
	return nil
}
