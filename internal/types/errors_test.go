package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	err := fmt.Errorf("update listing: %w", NewAPIError(ErrUnauthenticated, "You can only update your own listings!"))

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.NotErrorIs(t, err, ErrForbidden)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "You can only update your own listings!", apiErr.Message)
}

func TestUser_PublicOmitsPassword(t *testing.T) {
	u := &User{Username: "ana", Email: "ana@uni.es", Password: "$2a$10$hash", Avatar: DefaultAvatarURL}
	p := u.Public()
	assert.Equal(t, "ana", p.Username)
	assert.Equal(t, DefaultAvatarURL, p.Avatar)
}
