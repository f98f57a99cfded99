package user

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) RevokeClaims(ctx context.Context, claims *types.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

type MockOwnerListings struct {
	mock.Mock
}

func (m *MockOwnerListings) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Listing), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*types.PublicProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PublicProfile), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, callerID uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	args := m.Called(ctx, id, callerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string, callerID uuid.UUID, claims *types.Claims) error {
	args := m.Called(ctx, id, callerID, claims)
	return args.Error(0)
}

func (m *MockUserService) GetUserListings(ctx context.Context, id string, callerID uuid.UUID) ([]types.Listing, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Listing), args.Error(1)
}
