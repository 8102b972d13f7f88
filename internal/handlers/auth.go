package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// required: true
	// default: john
	Username string `json:"username"`
	// required: true
	// default: john@example.com
	Email string `json:"email"`
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration
// swagger:model RegisterResponse
type RegisterResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates an account with a unique username and email. The password is stored as a bcrypt hash.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.RegisterRequest true "Registration request"
// @Success 201 {object} handlers.RegisterResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing fields"
// @Failure 409 {object} handlers.ErrorResponse "Username or email already exists"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		id, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{ID: id, Message: "User registered successfully"})
	}
}

// LoginRequest represents the JSON body for login
// swagger:model LoginRequest
type LoginRequest struct {
	// required: true
	// default: john
	Username string `json:"username"`
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// LoginResponse carries the bearer token
// swagger:model LoginResponse
type LoginResponse struct {
	Token string `json:"token"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary Log in
// @Description Returns a JWT for valid credentials.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 401 {object} handlers.ErrorResponse "Invalid username or password"
// @Router /login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}

// ResetPasswordRequest asks for a reset token to be sent
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	// required: true
	// default: john@example.com
	Email string `json:"email"`
}

// NewResetPasswordRequestHandler returns an HTTP handler that starts a password reset.
// The response is the same whether or not the email is registered.
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.ResetPasswordRequest true "Account email"
// @Success 202 {object} handlers.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Router /reset_password_request [post]
func NewResetPasswordRequestHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusAccepted, MessageResponse{Message: "Check your email for the instructions to reset your password"})
	}
}

// ResetPasswordBody carries the new password
// swagger:model ResetPasswordBody
type ResetPasswordBody struct {
	// required: true
	Password string `json:"password"`
}

// NewResetPasswordHandler returns an HTTP handler that sets a new password from a reset token.
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body handlers.ResetPasswordBody true "New password"
// @Success 200 {object} handlers.MessageResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router /reset_password/{token} [post]
func NewResetPasswordHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordBody
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Your password has been reset"})
	}
}
