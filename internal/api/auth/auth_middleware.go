package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/FACorreiaa/apuntes-marketplace/internal/api"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	ClaimsKey contextKey = "claims"
)

// TokenValidator is the part of AuthService the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*types.Claims, error)
}

// Authenticate rejects requests without a session token (401) or with an
// invalid, expired or revoked one (403). On success the user id and claims
// are stored in the request context.
func Authenticate(logger *slog.Logger, validator TokenValidator, cookie *SessionCookie) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			tokenString := cookie.Token(r)
			if tokenString == "" {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := validator.ValidateToken(ctx, tokenString)
			if err != nil {
				if errors.Is(err, types.ErrForbidden) {
					l.WarnContext(ctx, "Token rejected", slog.Any("error", err))
					api.ErrorResponse(w, r, http.StatusForbidden, "Forbidden")
					return
				}
				api.HandleError(w, r, l, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, claims)))
		})
	}
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// CallerID returns the authenticated user's id, or an ErrUnauthenticated error
// when the request did not pass through Authenticate.
func CallerID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, types.NewAPIError(types.ErrUnauthenticated, "Unauthorized")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, types.NewAPIError(types.ErrUnauthenticated, "Unauthorized")
	}
	return id, nil
}

func GetClaimsFromContext(ctx context.Context) (*types.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*types.Claims)
	return claims, ok
}

// WithUser returns a copy of ctx carrying the given identity, as Authenticate would.
func WithUser(ctx context.Context, claims *types.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, ClaimsKey, claims)
}
