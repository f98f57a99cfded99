package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/apuntes-marketplace/app/observability/metrics"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Signup(ctx context.Context, req types.SignupRequest) (*types.User, error)
	// Signin returns the user and a freshly issued session token.
	Signin(ctx context.Context, email, password string) (*types.User, string, error)
	// FederatedAuth signs in, or provisions, the account behind a verified third-party identity.
	FederatedAuth(ctx context.Context, req types.FederatedAuthRequest) (*types.User, string, error)
	// SignOut revokes the token if it is still valid. It never fails the caller.
	SignOut(ctx context.Context, tokenString string)
	// ValidateToken parses the token and rejects revoked ones with types.ErrForbidden.
	ValidateToken(ctx context.Context, tokenString string) (*types.Claims, error)
	RevokeClaims(ctx context.Context, claims *types.Claims) error
	HashPassword(password string) (string, error)
}

type AuthServiceImpl struct {
	logger         *slog.Logger
	repo           AuthRepo
	tokens         *TokenManager
	verifier       IdentityVerifier
	verifyIdentity bool
}

func NewAuthService(repo AuthRepo, tokens *TokenManager, verifier IdentityVerifier, verifyIdentity bool, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:         logger,
		repo:           repo,
		tokens:         tokens,
		verifier:       verifier,
		verifyIdentity: verifyIdentity,
	}
}

func (s *AuthServiceImpl) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *AuthServiceImpl) Signup(ctx context.Context, req types.SignupRequest) (*types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signup")
	defer span.End()

	l := s.logger.With(slog.String("method", "Signup"))
	outcome := "error"
	defer func() {
		metrics.Get().SignupRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}()

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		outcome = "invalid"
		return nil, types.NewAPIError(types.ErrInvalidInput, "username, email and password are required")
	}
	if !strings.Contains(email, "@") {
		outcome = "invalid"
		return nil, types.NewAPIError(types.ErrInvalidInput, "email is not valid")
	}

	hashed, err := s.HashPassword(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, &types.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Avatar:   types.DefaultAvatarURL,
	})
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			outcome = "conflict"
			return nil, types.NewAPIError(types.ErrConflict, "Username or email already in use")
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create user failed")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	outcome = "success"
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	l.InfoContext(ctx, "User signed up", slog.String("userID", user.ID.String()))
	return user, nil
}

func (s *AuthServiceImpl) Signin(ctx context.Context, email, password string) (*types.User, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signin")
	defer span.End()

	l := s.logger.With(slog.String("method", "Signin"))
	outcome := "error"
	defer func() {
		metrics.Get().SigninRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", "password"),
			attribute.String("outcome", outcome),
		))
	}()

	if strings.TrimSpace(email) == "" || password == "" {
		outcome = "invalid"
		return nil, "", types.NewAPIError(types.ErrInvalidInput, "email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			outcome = "not_found"
			return nil, "", types.NewAPIError(types.ErrNotFound, "User not found")
		}
		span.RecordError(err)
		return nil, "", fmt.Errorf("error fetching user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		outcome = "wrong_credentials"
		l.InfoContext(ctx, "Password mismatch", slog.String("userID", user.ID.String()))
		return nil, "", types.NewAPIError(types.ErrUnauthenticated, "Wrong credentials")
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	outcome = "success"
	return user, token, nil
}

func (s *AuthServiceImpl) FederatedAuth(ctx context.Context, req types.FederatedAuthRequest) (*types.User, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "FederatedAuth", trace.WithAttributes(
		attribute.Bool("identity.verified", s.verifyIdentity),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "FederatedAuth"))
	outcome := "error"
	defer func() {
		metrics.Get().SigninRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", "google"),
			attribute.String("outcome", outcome),
		))
	}()

	email := strings.TrimSpace(req.Email)
	name := req.Name
	photo := req.Photo

	if s.verifyIdentity {
		if s.verifier == nil || req.AccessToken == "" {
			outcome = "unverified"
			return nil, "", types.NewAPIError(types.ErrUnauthenticated, "Identity could not be verified")
		}
		identity, err := s.verifier.Verify(ctx, req.AccessToken)
		if err != nil {
			outcome = "unverified"
			l.WarnContext(ctx, "Identity verification failed", slog.Any("error", err))
			return nil, "", types.NewAPIError(types.ErrUnauthenticated, "Identity could not be verified")
		}
		if email != "" && !strings.EqualFold(identity.Email, email) {
			outcome = "mismatch"
			l.WarnContext(ctx, "Verified email does not match payload")
			return nil, "", types.NewAPIError(types.ErrUnauthenticated, "Identity could not be verified")
		}
		email = identity.Email
		if strings.TrimSpace(name) == "" {
			name = identity.Name
		}
		if photo == "" {
			photo = identity.AvatarURL
		}
	}

	if email == "" {
		outcome = "invalid"
		return nil, "", types.NewAPIError(types.ErrInvalidInput, "email is required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrNotFound):
		user, err = s.provisionFederatedUser(ctx, name, email, photo)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "provisioning failed")
			return nil, "", err
		}
		l.InfoContext(ctx, "Provisioned federated user", slog.String("userID", user.ID.String()))
	default:
		span.RecordError(err)
		return nil, "", fmt.Errorf("error fetching user: %w", err)
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	outcome = "success"
	return user, token, nil
}

func (s *AuthServiceImpl) provisionFederatedUser(ctx context.Context, name, email, photo string) (*types.User, error) {
	password, err := randomString(generatedPassLen, passwordAlphabet)
	if err != nil {
		return nil, err
	}
	hashed, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if photo == "" {
		photo = types.DefaultAvatarURL
	}

	// The random suffix can collide with an existing username; retry a few times.
	for attempt := 0; attempt < maxUsernameRetries; attempt++ {
		username, err := generateUsername(name)
		if err != nil {
			return nil, err
		}
		user, err := s.repo.CreateUser(ctx, &types.User{
			Username: username,
			Email:    email,
			Password: hashed,
			Avatar:   photo,
		})
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, types.ErrConflict) {
			return nil, fmt.Errorf("error creating federated user: %w", err)
		}
		// A concurrent request may have created the same email.
		if existing, lookupErr := s.repo.GetUserByEmail(ctx, email); lookupErr == nil {
			return existing, nil
		}
	}
	return nil, types.NewAPIError(types.ErrConflict, "Could not allocate a unique username")
}

func (s *AuthServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*types.Claims, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.repo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", types.ErrForbidden)
	}
	return claims, nil
}

func (s *AuthServiceImpl) RevokeClaims(ctx context.Context, claims *types.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fmt.Errorf("%w: malformed user id claim", types.ErrForbidden)
	}
	return s.repo.RevokeToken(ctx, claims.ID, userID, claims.ExpiresAt.Time)
}

func (s *AuthServiceImpl) SignOut(ctx context.Context, tokenString string) {
	l := s.logger.With(slog.String("method", "SignOut"))
	if tokenString == "" {
		return
	}

	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		l.DebugContext(ctx, "Signout with unusable token", slog.Any("error", err))
		return
	}
	if err := s.RevokeClaims(ctx, claims); err != nil {
		l.WarnContext(ctx, "Failed to revoke token", slog.Any("error", err))
		return
	}
	if n, err := s.repo.PurgeExpiredRevocations(ctx); err != nil {
		l.WarnContext(ctx, "Failed to purge expired revocations", slog.Any("error", err))
	} else if n > 0 {
		l.DebugContext(ctx, "Purged expired revocations", slog.Int64("count", n))
	}
}

const (
	base36Alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// generateUsername lowercases name, drops whitespace and appends a random base36 suffix.
func generateUsername(name string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		b.WriteString("user")
	}
	suffix, err := randomString(usernameSuffixLen, base36Alphabet)
	if err != nil {
		return "", err
	}
	return b.String() + suffix, nil
}

// randomString draws each character uniformly from alphabet.
func randomString(n int, alphabet string) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
