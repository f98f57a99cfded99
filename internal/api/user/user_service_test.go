package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

type deps struct {
	repo     *MockUserRepo
	hasher   *MockHasher
	revoker  *MockRevoker
	listings *MockOwnerListings
}

func newTestService() (*UserServiceImpl, deps) {
	d := deps{new(MockUserRepo), new(MockHasher), new(MockRevoker), new(MockOwnerListings)}
	return NewUserService(d.repo, d.hasher, d.revoker, d.listings, testLogger), d
}

func strPtr(s string) *string { return &s }

func TestGetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("PublicProfile", func(t *testing.T) {
		service, d := newTestService()
		u := &types.User{ID: uuid.New(), Username: "ana", Email: "ana@uni.es", Password: "hash", Avatar: "a.png"}
		d.repo.On("GetUserByID", mock.Anything, u.ID).Return(u, nil).Once()

		profile, err := service.GetUser(ctx, u.ID.String())
		require.NoError(t, err)
		assert.Equal(t, types.PublicProfile{ID: u.ID, Username: "ana", Email: "ana@uni.es", Avatar: "a.png"}, *profile)
	})

	t.Run("MalformedID", func(t *testing.T) {
		service, _ := newTestService()
		_, err := service.GetUser(ctx, "nope")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("Missing", func(t *testing.T) {
		service, d := newTestService()
		id := uuid.New()
		d.repo.On("GetUserByID", mock.Anything, id).Return(nil, types.ErrNotFound).Once()

		_, err := service.GetUser(ctx, id.String())
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	caller := uuid.New()

	t.Run("HashesPassword", func(t *testing.T) {
		service, d := newTestService()
		d.hasher.On("HashPassword", "newsecret").Return("$2a$10$hashed", nil).Once()
		d.repo.On("UpdateUser", mock.Anything, caller, types.UpdateUserParams{
			Username: strPtr("ana2"),
			Password: strPtr("$2a$10$hashed"),
		}).Return(&types.User{ID: caller, Username: "ana2"}, nil).Once()

		u, err := service.UpdateUser(ctx, caller.String(), caller, types.UpdateUserParams{
			Username: strPtr(" ana2 "),
			Password: strPtr("newsecret"),
		})
		require.NoError(t, err)
		assert.Equal(t, "ana2", u.Username)
		d.repo.AssertExpectations(t)
		d.hasher.AssertExpectations(t)
	})

	t.Run("EmptyPasswordKept", func(t *testing.T) {
		service, d := newTestService()
		d.repo.On("UpdateUser", mock.Anything, caller, types.UpdateUserParams{}).Return(&types.User{ID: caller}, nil).Once()

		_, err := service.UpdateUser(ctx, caller.String(), caller, types.UpdateUserParams{Password: strPtr("")})
		require.NoError(t, err)
		d.hasher.AssertNotCalled(t, "HashPassword", mock.Anything)
	})

	t.Run("BlankAvatarResetsToDefault", func(t *testing.T) {
		service, d := newTestService()
		d.repo.On("UpdateUser", mock.Anything, caller, types.UpdateUserParams{Avatar: strPtr(types.DefaultAvatarURL)}).
			Return(&types.User{ID: caller, Avatar: types.DefaultAvatarURL}, nil).Once()

		_, err := service.UpdateUser(ctx, caller.String(), caller, types.UpdateUserParams{Avatar: strPtr(" ")})
		require.NoError(t, err)
	})

	t.Run("OtherAccount", func(t *testing.T) {
		service, d := newTestService()
		_, err := service.UpdateUser(ctx, uuid.NewString(), caller, types.UpdateUserParams{Username: strPtr("x")})

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		var apiErr *types.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "You can only update your own account!", apiErr.Message)
		d.repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		service, _ := newTestService()
		_, err := service.UpdateUser(ctx, caller.String(), caller, types.UpdateUserParams{Email: strPtr("nope")})
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("Duplicate", func(t *testing.T) {
		service, d := newTestService()
		d.repo.On("UpdateUser", mock.Anything, caller, mock.Anything).Return(nil, types.ErrConflict).Once()

		_, err := service.UpdateUser(ctx, caller.String(), caller, types.UpdateUserParams{Email: strPtr("taken@uni.es")})
		assert.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	caller := uuid.New()
	claims := &types.Claims{UserID: caller.String()}

	t.Run("DeletesAndRevokes", func(t *testing.T) {
		service, d := newTestService()
		d.repo.On("DeleteUser", mock.Anything, caller).Return(nil).Once()
		d.revoker.On("RevokeClaims", mock.Anything, claims).Return(nil).Once()

		require.NoError(t, service.DeleteUser(ctx, caller.String(), caller, claims))
		d.repo.AssertExpectations(t)
		d.revoker.AssertExpectations(t)
	})

	t.Run("RevocationFailureIgnored", func(t *testing.T) {
		service, d := newTestService()
		d.repo.On("DeleteUser", mock.Anything, caller).Return(nil).Once()
		d.revoker.On("RevokeClaims", mock.Anything, claims).Return(errors.New("db down")).Once()

		assert.NoError(t, service.DeleteUser(ctx, caller.String(), caller, claims))
	})

	t.Run("OtherAccount", func(t *testing.T) {
		service, d := newTestService()
		err := service.DeleteUser(ctx, uuid.NewString(), caller, claims)

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		d.repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})
}

func TestGetUserListings(t *testing.T) {
	ctx := context.Background()
	caller := uuid.New()

	t.Run("Self", func(t *testing.T) {
		service, d := newTestService()
		d.listings.On("ListByOwner", mock.Anything, caller).Return([]types.Listing{{Name: "a"}, {Name: "b"}}, nil).Once()

		listings, err := service.GetUserListings(ctx, caller.String(), caller)
		require.NoError(t, err)
		assert.Len(t, listings, 2)
	})

	t.Run("OtherUser", func(t *testing.T) {
		service, d := newTestService()
		_, err := service.GetUserListings(ctx, uuid.NewString(), caller)

		var apiErr *types.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "You cannot view your listings", apiErr.Message)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		d.listings.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
	})
}
