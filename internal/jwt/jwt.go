package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Errors returned by the token helpers.
var (
	ErrMissingAuthHeader = errors.New("authorization header missing")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
)

// Claims are carried by bearer tokens.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// resetClaims are carried by password-reset tokens.
type resetClaims struct {
	ResetPassword uuid.UUID `json:"reset_password"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 tokens.
type JWT struct {
	secretKey []byte
	exp       time.Duration
	resetExp  time.Duration
}

// Opt configures a JWT.
type Opt func(*JWT)

// WithSecretKey sets the signing key.
func WithSecretKey(key string) Opt {
	return func(j *JWT) { j.secretKey = []byte(key) }
}

// WithExpiration sets the lifetime of bearer tokens.
func WithExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.exp = d }
}

// WithResetExpiration sets the lifetime of password-reset tokens.
func WithResetExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.resetExp = d }
}

// New creates a JWT. Defaults: one hour bearer tokens, ten minute reset tokens.
func New(opts ...Opt) *JWT {
	j := &JWT{exp: time.Hour, resetExp: 10 * time.Minute}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *JWT) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return j.secretKey, nil
}

func registered(exp time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
	}
}

// Generate issues a bearer token for userID.
func (j *JWT) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	claims := Claims{UserID: userID, RegisteredClaims: registered(j.exp)}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// GetClaims verifies tokenString and returns its claims.
func (j *JWT) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Validate reports whether tokenString is a valid bearer token.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	_, err := j.GetClaims(ctx, tokenString)
	return err
}

// GenerateResetToken issues a short-lived token authorising a password reset.
func (j *JWT) GenerateResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	claims := resetClaims{ResetPassword: userID, RegisteredClaims: registered(j.resetExp)}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// ParseResetToken returns the user a reset token was issued for. Expired,
// tampered and malformed tokens all yield ErrInvalidToken.
func (j *JWT) ParseResetToken(ctx context.Context, tokenString string) (uuid.UUID, error) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc)
	if err != nil || !token.Valid || claims.ResetPassword == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return claims.ResetPassword, nil
}

// GetTokenFromRequest extracts the bearer token from the Authorization header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", ErrInvalidAuthHeader
	}

	return parts[1], nil
}
