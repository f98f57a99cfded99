package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/apuntes-marketplace/app/db"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var _ ListingRepo = (*PostgresListingRepo)(nil)

// ListingRepo is the listing store.
type ListingRepo interface {
	Create(ctx context.Context, listing *types.Listing) (*types.Listing, error)
	// GetByID returns types.ErrNotFound when the listing does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*types.Listing, error)
	// Update applies the non-nil fields of params and returns the stored record.
	Update(ctx context.Context, id uuid.UUID, params types.UpdateListingParams) (*types.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByOwner returns the owner's listings, newest first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]types.Listing, error)
	// Search returns one page of matches and the total number of matches.
	Search(ctx context.Context, q types.ListingQuery) ([]types.Listing, int, error)
}

type PostgresListingRepo struct {
	logger *slog.Logger
	db     database.DB
}

func NewPostgresListingRepo(db database.DB, logger *slog.Logger) *PostgresListingRepo {
	return &PostgresListingRepo{
		logger: logger,
		db:     db,
	}
}

const listingColumns = "id, name, description, course, semester, price, image_urls, user_ref, created_at, updated_at"

var sortColumns = map[types.ListingSort]string{
	types.SortCreatedAt: "created_at",
	types.SortUpdatedAt: "updated_at",
	types.SortPrice:     "price",
	types.SortName:      "name",
}

func scanListing(row pgx.Row) (*types.Listing, error) {
	var l types.Listing
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Course, &l.Semester, &l.Price,
		&l.ImageURLs, &l.UserRef, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]types.Listing, error) {
	defer rows.Close()
	listings := make([]types.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}
	return listings, nil
}

func (r *PostgresListingRepo) startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return otel.Tracer("ListingRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", "listings"),
	))
}

func (r *PostgresListingRepo) Create(ctx context.Context, listing *types.Listing) (*types.Listing, error) {
	ctx, span := r.startSpan(ctx, "Create", "INSERT")
	defer span.End()

	l := r.logger.With(slog.String("method", "Create"), slog.String("userRef", listing.UserRef.String()))

	created, err := scanListing(r.db.QueryRow(ctx,
		`INSERT INTO listings (name, description, course, semester, price, image_urls, user_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+listingColumns,
		listing.Name, listing.Description, listing.Course, listing.Semester,
		listing.Price, listing.ImageURLs, listing.UserRef,
	))
	if err != nil {
		err = database.TranslateError("insert listing", err)
		l.ErrorContext(ctx, "Failed to insert listing", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, err
	}

	l.InfoContext(ctx, "Listing created", slog.String("listingID", created.ID.String()))
	return created, nil
}

func (r *PostgresListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Listing, error) {
	ctx, span := r.startSpan(ctx, "GetByID", "SELECT")
	defer span.End()

	listing, err := scanListing(r.db.QueryRow(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = $1", id))
	if err != nil {
		err = database.TranslateError("get listing", err)
		span.RecordError(err)
		return nil, err
	}
	return listing, nil
}

func (r *PostgresListingRepo) Update(ctx context.Context, id uuid.UUID, params types.UpdateListingParams) (*types.Listing, error) {
	ctx, span := r.startSpan(ctx, "Update", "UPDATE")
	defer span.End()

	l := r.logger.With(slog.String("method", "Update"), slog.String("listingID", id.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *params.Name)
		argID++
	}
	if params.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *params.Description)
		argID++
	}
	if params.Course != nil {
		setClauses = append(setClauses, fmt.Sprintf("course = $%d", argID))
		args = append(args, *params.Course)
		argID++
	}
	if params.Semester != nil {
		setClauses = append(setClauses, fmt.Sprintf("semester = $%d", argID))
		args = append(args, *params.Semester)
		argID++
	}
	if params.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", argID))
		args = append(args, float64(*params.Price))
		argID++
	}
	if params.ImageURLs != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_urls = $%d", argID))
		args = append(args, *params.ImageURLs)
		argID++
	}

	if len(setClauses) == 0 {
		l.DebugContext(ctx, "Update called with no fields to update")
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE listings SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argID, listingColumns)

	span.SetAttributes(attribute.Int("update.fields", len(setClauses)-1))
	l.DebugContext(ctx, "Executing dynamic update query", slog.String("query", query), slog.Int("arg_count", len(args)))

	updated, err := scanListing(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		err = database.TranslateError("update listing", err)
		l.ErrorContext(ctx, "Failed to update listing", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, err
	}
	return updated, nil
}

func (r *PostgresListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.startSpan(ctx, "Delete", "DELETE")
	defer span.End()

	tag, err := r.db.Exec(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		err = database.TranslateError("delete listing", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func (r *PostgresListingRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]types.Listing, error) {
	ctx, span := r.startSpan(ctx, "ListByOwner", "SELECT")
	defer span.End()

	rows, err := r.db.Query(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE user_ref = $1 ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		err = database.TranslateError("list owner listings", err)
		span.RecordError(err)
		return nil, err
	}
	return collectListings(rows)
}

// buildSearchFilter returns the WHERE clause (possibly empty) and its arguments.
func buildSearchFilter(q types.ListingQuery) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argID := 1

	if q.SearchTerm != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argID))
		args = append(args, "%"+escapeLike(q.SearchTerm)+"%")
		argID++
	}
	if q.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", argID))
		args = append(args, *q.Semester)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// buildOrderBy returns an ORDER BY clause from the whitelist, tie-broken on id
// in the same direction so offset pages never overlap.
func buildOrderBy(q types.ListingQuery) string {
	column, ok := sortColumns[q.Sort]
	if !ok {
		column = sortColumns[types.SortCreatedAt]
	}
	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", column, dir, dir)
}

func (r *PostgresListingRepo) Search(ctx context.Context, q types.ListingQuery) ([]types.Listing, int, error) {
	ctx, span := r.startSpan(ctx, "Search", "SELECT")
	defer span.End()

	l := r.logger.With(slog.String("method", "Search"))

	where, args := buildSearchFilter(q)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM listings"+where, args...).Scan(&total); err != nil {
		err = database.TranslateError("count listings", err)
		span.RecordError(err)
		return nil, 0, err
	}

	if total == 0 || q.StartIndex >= total {
		return []types.Listing{}, total, nil
	}

	query := "SELECT " + listingColumns + " FROM listings" + where + buildOrderBy(q) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	pageArgs := append(append([]interface{}{}, args...), q.Limit, q.StartIndex)

	l.DebugContext(ctx, "Executing listing search", slog.String("query", query))

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		err = database.TranslateError("search listings", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, 0, err
	}
	listings, err := collectListings(rows)
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("result.count", len(listings)), attribute.Int("result.total", total))
	return listings, total, nil
}
