package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/apuntes-marketplace/app/observability/metrics"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

// maxPrice is the largest value NUMERIC(10,2) can hold.
const maxPrice = 99999999.99

var _ ListingService = (*ListingServiceImpl)(nil)

type ListingService interface {
	CreateListing(ctx context.Context, callerID uuid.UUID, params types.CreateListingParams) (*types.Listing, error)
	// UpdateListing applies a partial update to a listing owned by callerID.
	UpdateListing(ctx context.Context, id string, callerID uuid.UUID, params types.UpdateListingParams) (*types.Listing, error)
	DeleteListing(ctx context.Context, id string, callerID uuid.UUID) error
	GetListing(ctx context.Context, id string) (*types.Listing, error)
	GetListings(ctx context.Context, q types.ListingQuery) (*types.ListingPage, error)
	// ListByOwner returns the owner's listings, newest first. Callers enforce access.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Listing, error)
}

type ListingServiceImpl struct {
	logger *slog.Logger
	repo   ListingRepo
}

func NewListingService(repo ListingRepo, logger *slog.Logger) *ListingServiceImpl {
	return &ListingServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func invalid(msg string) error {
	return types.NewAPIError(types.ErrInvalidInput, msg)
}

// validateListing checks a complete (created or merged) listing.
func validateListing(l *types.Listing) error {
	if strings.TrimSpace(l.Name) == "" {
		return invalid("name is required")
	}
	if strings.TrimSpace(l.Description) == "" {
		return invalid("description is required")
	}
	if strings.TrimSpace(l.Course) == "" {
		return invalid("course is required")
	}
	if !l.Semester.Valid() {
		return invalid("semester must be between 1 and 10")
	}
	if l.Price <= 0 {
		return invalid("price must be greater than 0")
	}
	if l.Price > maxPrice {
		return invalid("price is too large")
	}
	if len(l.ImageURLs) < types.MinImageURLs || len(l.ImageURLs) > types.MaxImageURLs {
		return invalid(fmt.Sprintf("between %d and %d images are required", types.MinImageURLs, types.MaxImageURLs))
	}
	for _, u := range l.ImageURLs {
		if strings.TrimSpace(u) == "" {
			return invalid("image URLs cannot be empty")
		}
	}
	return nil
}

func trimURLs(urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = strings.TrimSpace(u)
	}
	return out
}

func (s *ListingServiceImpl) CreateListing(ctx context.Context, callerID uuid.UUID, params types.CreateListingParams) (*types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "CreateListing")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateListing"), slog.String("userID", callerID.String()))

	listing := &types.Listing{
		Name:        strings.TrimSpace(params.Name),
		Description: strings.TrimSpace(params.Description),
		Course:      strings.TrimSpace(params.Course),
		Semester:    params.Semester,
		Price:       float64(params.Price),
		ImageURLs:   trimURLs(params.ImageURLs),
		UserRef:     callerID,
	}
	if err := validateListing(listing); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create listing", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create listing failed")
		if errors.Is(err, types.ErrNotFound) {
			// The owner row vanished between authentication and insert.
			return nil, types.NewAPIError(types.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("error creating listing: %w", err)
	}

	span.SetAttributes(attribute.String("listing.id", created.ID.String()))
	l.InfoContext(ctx, "Listing created", slog.String("listingID", created.ID.String()))
	return created, nil
}

// loadOwned fetches the listing and checks that callerID owns it.
func (s *ListingServiceImpl) loadOwned(ctx context.Context, id string, callerID uuid.UUID, notFoundMsg, forbiddenMsg string) (*types.Listing, error) {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewAPIError(types.ErrNotFound, notFoundMsg)
	}
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewAPIError(types.ErrNotFound, notFoundMsg)
		}
		return nil, fmt.Errorf("error fetching listing: %w", err)
	}
	if listing.UserRef != callerID {
		return nil, types.NewAPIError(types.ErrUnauthenticated, forbiddenMsg)
	}
	return listing, nil
}

func (s *ListingServiceImpl) UpdateListing(ctx context.Context, id string, callerID uuid.UUID, params types.UpdateListingParams) (*types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "UpdateListing")
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateListing"), slog.String("listingID", id))

	existing, err := s.loadOwned(ctx, id, callerID, "Listing not found!", "You can only update your own listings!")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if params.UserRef != nil && strings.TrimSpace(*params.UserRef) != existing.UserRef.String() {
		return nil, invalid("userRef cannot be changed")
	}
	params.UserRef = nil

	merged := *existing
	if params.Name != nil {
		v := strings.TrimSpace(*params.Name)
		params.Name, merged.Name = &v, v
	}
	if params.Description != nil {
		v := strings.TrimSpace(*params.Description)
		params.Description, merged.Description = &v, v
	}
	if params.Course != nil {
		v := strings.TrimSpace(*params.Course)
		params.Course, merged.Course = &v, v
	}
	if params.Semester != nil {
		merged.Semester = *params.Semester
	}
	if params.Price != nil {
		merged.Price = float64(*params.Price)
	}
	if params.ImageURLs != nil {
		v := trimURLs(*params.ImageURLs)
		params.ImageURLs, merged.ImageURLs = &v, v
	}
	if err := validateListing(&merged); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, existing.ID, params)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewAPIError(types.ErrNotFound, "Listing not found!")
		}
		l.ErrorContext(ctx, "Failed to update listing", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update listing failed")
		return nil, fmt.Errorf("error updating listing: %w", err)
	}

	l.InfoContext(ctx, "Listing updated")
	return updated, nil
}

func (s *ListingServiceImpl) DeleteListing(ctx context.Context, id string, callerID uuid.UUID) error {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "DeleteListing")
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteListing"), slog.String("listingID", id))

	existing, err := s.loadOwned(ctx, id, callerID, "Apuntes no encontrados", "Solo puedes eliminar uno")
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.NewAPIError(types.ErrNotFound, "Apuntes no encontrados")
		}
		l.ErrorContext(ctx, "Failed to delete listing", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete listing failed")
		return fmt.Errorf("error deleting listing: %w", err)
	}

	l.InfoContext(ctx, "Listing deleted")
	return nil
}

func (s *ListingServiceImpl) GetListing(ctx context.Context, id string) (*types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "GetListing")
	defer span.End()

	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewAPIError(types.ErrNotFound, "Apunte no encontrado")
	}
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewAPIError(types.ErrNotFound, "Apunte no encontrado")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("error fetching listing: %w", err)
	}
	return listing, nil
}

func (s *ListingServiceImpl) GetListings(ctx context.Context, q types.ListingQuery) (*types.ListingPage, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "GetListings")
	defer span.End()

	l := s.logger.With(slog.String("method", "GetListings"))
	start := time.Now()
	outcome := "error"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("sort", string(q.Sort)),
			attribute.Bool("filtered", q.SearchTerm != "" || q.Semester != nil),
			attribute.String("outcome", outcome),
		)
		m := metrics.Get()
		m.ListingQueriesTotal.Add(ctx, 1, attrs)
		m.ListingQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	span.SetAttributes(
		attribute.String("query.search_term", q.SearchTerm),
		attribute.String("query.sort", string(q.Sort)),
		attribute.Bool("query.ascending", q.Ascending),
		attribute.Int("query.limit", q.Limit),
		attribute.Int("query.start_index", q.StartIndex),
	)

	listings, total, err := s.repo.Search(ctx, q)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search listings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "search listings failed")
		return nil, fmt.Errorf("error searching listings: %w", err)
	}

	outcome = "success"
	return &types.ListingPage{
		Listings:   listings,
		Total:      total,
		Limit:      q.Limit,
		StartIndex: q.StartIndex,
		HasMore:    q.StartIndex+len(listings) < total,
	}, nil
}

func (s *ListingServiceImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "ListByOwner")
	defer span.End()

	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list owner listings", slog.String("userID", ownerID.String()), slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("error listing user listings: %w", err)
	}
	return listings, nil
}
