package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/apuntes-marketplace/config"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

func newTestCookie() *SessionCookie {
	return NewSessionCookie(config.CookieConfig{Name: "access_token", Secure: true}, time.Hour)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSigninHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, newTestCookie(), testLogger)

	// Test case: successful signin sets the cookie and hides the password
	t.Run("Success", func(t *testing.T) {
		user := &types.User{ID: uuid.New(), Username: "ana", Email: "ana@uni.es", Password: "$2a$10$hash"}
		mockService.On("Signin", mock.Anything, "ana@uni.es", "secret").Return(user, "signed-token", nil).Once()

		body, _ := json.Marshal(map[string]string{"email": "ana@uni.es", "password": "secret"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Signin(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "ana", response["username"])
		assert.NotContains(t, response, "password")

		c := findCookie(w, "access_token")
		require.NotNil(t, c)
		assert.Equal(t, "signed-token", c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		mockService.AssertExpectations(t)
	})

	// Test case: wrong password maps to 401 with the service message
	t.Run("WrongCredentials", func(t *testing.T) {
		mockService.On("Signin", mock.Anything, "ana@uni.es", "nope").
			Return(nil, "", types.NewAPIError(types.ErrUnauthenticated, "Wrong credentials")).Once()

		body, _ := json.Marshal(map[string]string{"email": "ana@uni.es", "password": "nope"})
		w := httptest.NewRecorder()
		handler.Signin(w, httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewBuffer(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"statusCode":401,"message":"Wrong credentials"}`, w.Body.String())
		assert.Nil(t, findCookie(w, "access_token"))
	})

	// Test case: unknown email maps to 404
	t.Run("UserNotFound", func(t *testing.T) {
		mockService.On("Signin", mock.Anything, "who@uni.es", "x").
			Return(nil, "", types.NewAPIError(types.ErrNotFound, "User not found")).Once()

		body, _ := json.Marshal(map[string]string{"email": "who@uni.es", "password": "x"})
		w := httptest.NewRecorder()
		handler.Signin(w, httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewBuffer(body)))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	// Test case: malformed body never reaches the service
	t.Run("InvalidRequestBody", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Signin(w, httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewBufferString(`{"email":`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestSignupHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, newTestCookie(), testLogger)

	t.Run("Created", func(t *testing.T) {
		req := types.SignupRequest{Username: "ana", Email: "ana@uni.es", Password: "secret"}
		mockService.On("Signup", mock.Anything, req).Return(&types.User{ID: uuid.New()}, nil).Once()

		body, _ := json.Marshal(req)
		w := httptest.NewRecorder()
		handler.Signup(w, httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBuffer(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Nil(t, findCookie(w, "access_token"))
	})

	t.Run("Conflict", func(t *testing.T) {
		req := types.SignupRequest{Username: "ana", Email: "ana@uni.es", Password: "secret"}
		mockService.On("Signup", mock.Anything, req).
			Return(nil, types.NewAPIError(types.ErrConflict, "Username or email already in use")).Once()

		body, _ := json.Marshal(req)
		w := httptest.NewRecorder()
		handler.Signup(w, httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBuffer(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGoogleHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, newTestCookie(), testLogger)

	req := types.FederatedAuthRequest{Name: "Ana", Email: "ana@gmail.com", Photo: "p.png", AccessToken: "tok"}
	mockService.On("FederatedAuth", mock.Anything, req).Return(&types.User{ID: uuid.New(), Email: "ana@gmail.com"}, "signed", nil).Once()

	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	handler.Google(w, httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBuffer(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, findCookie(w, "access_token"))
	mockService.AssertExpectations(t)
}

func TestSignOutHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, newTestCookie(), testLogger)

	mockService.On("SignOut", mock.Anything, "old-token").Return().Once()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "old-token"})
	w := httptest.NewRecorder()
	handler.SignOut(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	c := findCookie(w, "access_token")
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.True(t, c.MaxAge < 0)
	mockService.AssertExpectations(t)
}
