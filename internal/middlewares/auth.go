package middlewares

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/jwt"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// Tokener extracts and verifies bearer tokens.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// LastSeenToucher records user activity.
type LastSeenToucher interface {
	TouchLastSeen(ctx context.Context, userID uuid.UUID) error
}

type claimsKey struct{}

// WithClaims stores the caller's claims in ctx.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// AuthMiddleware rejects requests without a valid bearer token, stores
// the claims for handlers and stamps the caller's last-seen time. toucher
// may be nil.
func AuthMiddleware(tokener Tokener, toucher LastSeenToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			if toucher != nil {
				if err := toucher.TouchLastSeen(ctx, claims.UserID); err != nil {
					logger.Log.Warnw("failed to update last seen", "user_id", claims.UserID, "err", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}
