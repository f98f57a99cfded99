package auth

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/apuntes-marketplace/internal/api"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

type AuthHandler struct {
	authService AuthService
	cookie      *SessionCookie
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, cookie *SessionCookie, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// Signup godoc
// @Summary      Register a new account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.SignupRequest true "Account details"
// @Success      201 {object} types.Response
// @Failure      400 {object} types.ErrorBody
// @Failure      409 {object} types.ErrorBody "Username or email already in use"
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	if _, err := h.authService.Signup(r.Context(), req); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.Response{
		Success: true,
		Message: "User created successfully",
	})
}

// Signin godoc
// @Summary      Sign in with email and password
// @Description  Sets the HTTP-only session cookie and returns the user without password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.SigninRequest true "Credentials"
// @Success      200 {object} types.User
// @Failure      401 {object} types.ErrorBody "Wrong credentials"
// @Failure      404 {object} types.ErrorBody "User not found"
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req types.SigninRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	user, token, err := h.authService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	h.cookie.Set(w, token)
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// Google godoc
// @Summary      Sign in with Google
// @Description  Verifies the Google access token, links or creates the account and sets the session cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.FederatedAuthRequest true "Google identity"
// @Success      200 {object} types.User
// @Failure      401 {object} types.ErrorBody "Identity could not be verified"
// @Router       /auth/google [post]
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req types.FederatedAuthRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	user, token, err := h.authService.FederatedAuth(r.Context(), req)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	h.cookie.Set(w, token)
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Clears the session cookie and revokes the token when one is present.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Response
// @Router       /auth/signout [get]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.authService.SignOut(r.Context(), h.cookie.Token(r))
	h.cookie.Clear(w)
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User has been logged out!",
	})
}
