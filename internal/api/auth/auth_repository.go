package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/apuntes-marketplace/app/db"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the credential store.
type AuthRepo interface {
	// CreateUser inserts a user whose Password is already hashed.
	// Returns types.ErrConflict when the username or email is taken.
	CreateUser(ctx context.Context, user *types.User) (*types.User, error)
	// GetUserByEmail matches email case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)

	RevokeToken(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpiredRevocations drops revocations for tokens that have expired anyway.
	PurgeExpiredRevocations(ctx context.Context) (int64, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     database.DB
}

func NewPostgresAuthRepo(db database.DB, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

const userColumns = "id, username, email, password, avatar, created_at, updated_at"

func (r *PostgresAuthRepo) startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return otel.Tracer("AuthRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", op),
	))
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "CreateUser", "INSERT")
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", user.Username))

	avatar := user.Avatar
	if avatar == "" {
		avatar = types.DefaultAvatarURL
	}

	created := *user
	created.Avatar = avatar
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password, avatar)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.Username, user.Email, user.Password, avatar,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		err = database.TranslateError("insert user", err)
		l.WarnContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, err
	}

	l.InfoContext(ctx, "User created", slog.String("userID", created.ID.String()))
	return &created, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "GetUserByEmail", "SELECT")
	defer span.End()

	var u types.User
	err := r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1)", email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		err = database.TranslateError("get user by email", err)
		span.RecordError(err)
		return nil, err
	}
	return &u, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := r.startSpan(ctx, "GetUserByID", "SELECT")
	defer span.End()

	var u types.User
	err := r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		err = database.TranslateError("get user by id", err)
		span.RecordError(err)
		return nil, err
	}
	return &u, nil
}

func (r *PostgresAuthRepo) RevokeToken(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error {
	ctx, span := r.startSpan(ctx, "RevokeToken", "INSERT")
	defer span.End()

	_, err := r.db.Exec(ctx,
		`INSERT INTO revoked_tokens (jti, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, userID, expiresAt,
	)
	if err != nil {
		err = database.TranslateError("revoke token", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return err
	}
	return nil
}

func (r *PostgresAuthRepo) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, span := r.startSpan(ctx, "IsTokenRevoked", "SELECT")
	defer span.End()

	var revoked bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)", jti,
	).Scan(&revoked)
	if err != nil {
		err = database.TranslateError("check token revocation", err)
		span.RecordError(err)
		return false, err
	}
	return revoked, nil
}

func (r *PostgresAuthRepo) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	ctx, span := r.startSpan(ctx, "PurgeExpiredRevocations", "DELETE")
	defer span.End()

	tag, err := r.db.Exec(ctx, "DELETE FROM revoked_tokens WHERE expires_at < NOW()")
	if err != nil {
		err = database.TranslateError("purge revocations", err)
		span.RecordError(err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}
