package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/apuntes-marketplace/internal/api"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/auth"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

type UserHandler struct {
	userService UserService
	cookie      *auth.SessionCookie
	logger      *slog.Logger
}

func NewUserHandler(userService UserService, cookie *auth.SessionCookie, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
		logger:      logger,
	}
}

// GetUser godoc
// @Summary      Get a seller's public profile
// @Tags         User
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} types.PublicProfile
// @Failure      404 {object} types.ErrorBody "User not found"
// @Router       /user/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateUser godoc
// @Summary      Update your account
// @Description  Only the supplied fields change. A new password is hashed before it is stored.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        id   path string true "User ID"
// @Param        body body types.UpdateUserParams true "Fields to change"
// @Success      200 {object} types.User
// @Failure      400 {object} types.ErrorBody
// @Failure      401 {object} types.ErrorBody "You can only update your own account!"
// @Failure      409 {object} types.ErrorBody "Username or email already in use"
// @Router       /user/update/{id} [post]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.CallerID(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	var params types.UpdateUserParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	u, err := h.userService.UpdateUser(r.Context(), chi.URLParam(r, "id"), callerID, params)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, u)
}

// DeleteUser godoc
// @Summary      Delete your account
// @Description  Deletes the account and its listings, revokes the session and clears the cookie.
// @Tags         User
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} types.Response
// @Failure      401 {object} types.ErrorBody "You can only delete your own account!"
// @Router       /user/delete/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.CallerID(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	claims, _ := auth.GetClaimsFromContext(r.Context())

	if err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "id"), callerID, claims); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	h.cookie.Clear(w)
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User has been deleted!",
	})
}

// GetUserListings godoc
// @Summary      List your own listings
// @Tags         User
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {array} types.Listing
// @Failure      401 {object} types.ErrorBody "You cannot view your listings"
// @Router       /user/listings/{id} [get]
func (h *UserHandler) GetUserListings(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.CallerID(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	listings, err := h.userService.GetUserListings(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, listings)
}
