package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

// PasswordHasher hashes account passwords the same way signup does.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// TokenRevoker invalidates a session token before it expires.
type TokenRevoker interface {
	RevokeClaims(ctx context.Context, claims *types.Claims) error
}

// OwnerListings lists the listings a user has published.
type OwnerListings interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Listing, error)
}

type UserService interface {
	GetUser(ctx context.Context, id string) (*types.PublicProfile, error)
	UpdateUser(ctx context.Context, id string, callerID uuid.UUID, params types.UpdateUserParams) (*types.User, error)
	// DeleteUser removes the caller's account and revokes the token in claims.
	DeleteUser(ctx context.Context, id string, callerID uuid.UUID, claims *types.Claims) error
	GetUserListings(ctx context.Context, id string, callerID uuid.UUID) ([]types.Listing, error)
}

type UserServiceImpl struct {
	logger   *slog.Logger
	repo     UserRepo
	hasher   PasswordHasher
	revoker  TokenRevoker
	listings OwnerListings
}

func NewUserService(repo UserRepo, hasher PasswordHasher, revoker TokenRevoker, listings OwnerListings, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger:   logger,
		repo:     repo,
		hasher:   hasher,
		revoker:  revoker,
		listings: listings,
	}
}

// selfOnly returns the target id when it names the caller, and msg as a 401 otherwise.
func selfOnly(id string, callerID uuid.UUID, msg string) (uuid.UUID, error) {
	target, err := uuid.Parse(id)
	if err != nil || target != callerID {
		return uuid.Nil, types.NewAPIError(types.ErrUnauthenticated, msg)
	}
	return target, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*types.PublicProfile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUser")
	defer span.End()

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewAPIError(types.ErrNotFound, "User not found")
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewAPIError(types.ErrNotFound, "User not found")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	profile := u.Public()
	return &profile, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, callerID uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateUser", trace.WithAttributes(attribute.String("user.id", callerID.String())))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateUser"), slog.String("userID", callerID.String()))

	userID, err := selfOnly(id, callerID, "You can only update your own account!")
	if err != nil {
		return nil, err
	}

	if params.Username != nil {
		v := strings.TrimSpace(*params.Username)
		if v == "" {
			return nil, types.NewAPIError(types.ErrInvalidInput, "username cannot be empty")
		}
		params.Username = &v
	}
	if params.Email != nil {
		v := strings.TrimSpace(*params.Email)
		if !strings.Contains(v, "@") {
			return nil, types.NewAPIError(types.ErrInvalidInput, "email is not valid")
		}
		params.Email = &v
	}
	if params.Avatar != nil && strings.TrimSpace(*params.Avatar) == "" {
		v := types.DefaultAvatarURL
		params.Avatar = &v
	}
	if params.Password != nil {
		// An empty password field means "keep the current one".
		if *params.Password == "" {
			params.Password = nil
		} else {
			hashed, err := s.hasher.HashPassword(*params.Password)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			params.Password = &hashed
		}
	}

	u, err := s.repo.UpdateUser(ctx, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrConflict):
			return nil, types.NewAPIError(types.ErrConflict, "Username or email already in use")
		case errors.Is(err, types.ErrNotFound):
			return nil, types.NewAPIError(types.ErrNotFound, "User not found")
		}
		l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update user failed")
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return u, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string, callerID uuid.UUID, claims *types.Claims) error {
	ctx, span := otel.Tracer("UserService").Start(ctx, "DeleteUser", trace.WithAttributes(attribute.String("user.id", callerID.String())))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteUser"), slog.String("userID", callerID.String()))

	userID, err := selfOnly(id, callerID, "You can only delete your own account!")
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.NewAPIError(types.ErrNotFound, "User not found")
		}
		l.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete user failed")
		return fmt.Errorf("error deleting user: %w", err)
	}

	if claims != nil {
		if err := s.revoker.RevokeClaims(ctx, claims); err != nil {
			l.WarnContext(ctx, "Account deleted but token revocation failed", slog.Any("error", err))
		}
	}

	l.InfoContext(ctx, "Account deleted")
	return nil
}

func (s *UserServiceImpl) GetUserListings(ctx context.Context, id string, callerID uuid.UUID) ([]types.Listing, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUserListings", trace.WithAttributes(attribute.String("user.id", callerID.String())))
	defer span.End()

	userID, err := selfOnly(id, callerID, "You cannot view your listings")
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.ListByOwner(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("listings.count", len(listings)))
	return listings, nil
}
