package listing

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, listing *types.Listing) (*types.Listing, error) {
	args := m.Called(ctx, listing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Listing), args.Error(1)
}

func (m *MockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Listing), args.Error(1)
}

func (m *MockListingRepo) Update(ctx context.Context, id uuid.UUID, params types.UpdateListingParams) (*types.Listing, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Listing), args.Error(1)
}

func (m *MockListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]types.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Listing), args.Error(1)
}

func (m *MockListingRepo) Search(ctx context.Context, q types.ListingQuery) ([]types.Listing, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Listing), args.Int(1), args.Error(2)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, callerID uuid.UUID, params types.CreateListingParams) (*types.Listing, error) {
	args := m.Called(ctx, callerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Listing), args.Error(1)
}

func (m *MockListingService) UpdateListing(ctx context.Context, id string, callerID uuid.UUID, params types.UpdateListingParams) (*types.Listing, error) {
	args := m.Called(ctx, id, callerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Listing), args.Error(1)
}

func (m *MockListingService) DeleteListing(ctx context.Context, id string, callerID uuid.UUID) error {
	args := m.Called(ctx, id, callerID)
	return args.Error(0)
}

func (m *MockListingService) GetListing(ctx context.Context, id string) (*types.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Listing), args.Error(1)
}

func (m *MockListingService) GetListings(ctx context.Context, q types.ListingQuery) (*types.ListingPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ListingPage), args.Error(1)
}

func (m *MockListingService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Listing), args.Error(1)
}
