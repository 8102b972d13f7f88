package services

import "errors"

// Validation errors.
var (
	ErrInvalidInput   = errors.New("username, email and password are required")
	ErrEmptyBody      = errors.New("body must not be empty")
	ErrBodyTooLong    = errors.New("body must be at most 140 characters")
	ErrAboutMeTooLong = errors.New("about me must be at most 140 characters")
	ErrInvalidQuery   = errors.New("search query must not be empty")
)

// Identity errors.
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// Domain errors.
var (
	ErrCannotFollowSelf  = errors.New("cannot follow yourself")
	ErrPostNotFound      = errors.New("post not found")
	ErrForbidden         = errors.New("not allowed")
	ErrTaskInProgress    = errors.New("a task with this name is already in progress")
	ErrSearchUnavailable = errors.New("search is temporarily unavailable")
)

// MaxTextLength bounds post bodies, message bodies and about-me texts.
const MaxTextLength = 140
