package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/apuntes-marketplace/config"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	now = time.Now
)

var _ StorageService = (*S3StorageService)(nil)

type StorageService interface {
	// PresignUpload returns a short-lived PUT URL for one listing image owned by userID.
	PresignUpload(ctx context.Context, userID uuid.UUID, req types.PresignRequest) (*types.PresignedUpload, error)
}

type S3StorageService struct {
	cfg    config.S3Config
	logger *slog.Logger

	mu        sync.Mutex
	presigner *s3.PresignClient
}

func NewS3StorageService(cfg config.S3Config, logger *slog.Logger) *S3StorageService {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	return &S3StorageService{cfg: cfg, logger: logger}
}

// getPresignClient builds the presign client on first success. Failures are
// not cached, so a later request retries.
func (s *S3StorageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presigner != nil {
		return s.presigner, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKeyID,
			s.cfg.SecretAccessKey,
			"",
		)))
	}

	// The loaded config outlives this request.
	cfg, err := loadDefaultAWSConfig(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
		}
		o.UsePathStyle = s.cfg.UsePathStyle
	})
	s.presigner = newS3PresignClient(client)
	return s.presigner, nil
}

// safeExt returns the lowercased extension of fileName, or "" when it is
// missing or contains anything other than letters and digits.
func safeExt(fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, `\`, "/")))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// objectKey places uploads under the owner's prefix so keys never collide.
func objectKey(userID uuid.UUID, fileName string, t time.Time) string {
	return fmt.Sprintf("listings/%s/%04d/%02d/%s%s", userID, t.Year(), int(t.Month()), uuid.New(), safeExt(fileName))
}

// publicURL is the address a stored object is served from.
func (s *S3StorageService) publicURL(key string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}

func (s *S3StorageService) PresignUpload(ctx context.Context, userID uuid.UUID, req types.PresignRequest) (*types.PresignedUpload, error) {
	ctx, span := otel.Tracer("StorageService").Start(ctx, "PresignUpload")
	defer span.End()

	l := s.logger.With(slog.String("method", "PresignUpload"), slog.String("userID", userID.String()))

	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(req.ContentType))
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return nil, types.NewAPIError(types.ErrInvalidInput, "only image uploads are allowed")
	}
	if strings.TrimSpace(req.FileName) == "" {
		return nil, types.NewAPIError(types.ErrInvalidInput, "fileName is required")
	}

	presigner, err := s.getPresignClient(ctx)
	if err != nil {
		l.ErrorContext(ctx, "S3 client unavailable", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "s3 client unavailable")
		return nil, err
	}

	issuedAt := now()
	key := objectKey(userID, req.FileName, issuedAt)
	signed, err := presignPutObject(presigner, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(mediaType),
	}, s3.WithPresignExpires(s.cfg.PresignTTL))
	if err != nil {
		l.ErrorContext(ctx, "Failed to presign upload", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "presign failed")
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	span.SetAttributes(attribute.String("s3.key", key))
	l.DebugContext(ctx, "Presigned upload", slog.String("key", key))
	return &types.PresignedUpload{
		Key:       key,
		UploadURL: signed.URL,
		PublicURL: s.publicURL(key),
		ExpiresAt: issuedAt.Add(s.cfg.PresignTTL),
	}, nil
}
