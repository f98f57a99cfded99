package listing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/apuntes-marketplace/internal/api"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/auth"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

type ListingHandler struct {
	listingService ListingService
	limits         QueryLimits
	logger         *slog.Logger
}

func NewListingHandler(listingService ListingService, limits QueryLimits, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		limits:         limits,
		logger:         logger,
	}
}

// CreateListing godoc
// @Summary      Create a listing
// @Description  The owner is always the authenticated user; any userRef in the body is ignored.
// @Tags         Listings
// @Accept       json
// @Produce      json
// @Param        body body types.CreateListingParams true "Listing"
// @Success      201 {object} types.Listing
// @Failure      400 {object} types.ErrorBody
// @Failure      401 {object} types.ErrorBody
// @Router       /listing/create [post]
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.CallerID(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	var params types.CreateListingParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	listing, err := h.listingService.CreateListing(r.Context(), callerID, params)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, listing)
}

// UpdateListing godoc
// @Summary      Update one of your listings
// @Tags         Listings
// @Accept       json
// @Produce      json
// @Param        id   path string true "Listing ID"
// @Param        body body types.UpdateListingParams true "Fields to change"
// @Success      200 {object} types.Listing
// @Failure      400 {object} types.ErrorBody
// @Failure      401 {object} types.ErrorBody "You can only update your own listings!"
// @Failure      404 {object} types.ErrorBody "Listing not found!"
// @Router       /listing/update/{id} [post]
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.CallerID(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	var params types.UpdateListingParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	listing, err := h.listingService.UpdateListing(r.Context(), chi.URLParam(r, "id"), callerID, params)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, listing)
}

// DeleteListing godoc
// @Summary      Delete one of your listings
// @Tags         Listings
// @Produce      json
// @Param        id path string true "Listing ID"
// @Success      200 {object} types.Response
// @Failure      401 {object} types.ErrorBody "Solo puedes eliminar uno"
// @Failure      404 {object} types.ErrorBody "Apuntes no encontrados"
// @Router       /listing/delete/{id} [delete]
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.CallerID(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	if err := h.listingService.DeleteListing(r.Context(), chi.URLParam(r, "id"), callerID); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Apunte eliminado",
	})
}

// GetListing godoc
// @Summary      Get a listing
// @Tags         Listings
// @Produce      json
// @Param        id path string true "Listing ID"
// @Success      200 {object} types.Listing
// @Failure      404 {object} types.ErrorBody "Apunte no encontrado"
// @Router       /listing/get/{id} [get]
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listingService.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, listing)
}

// GetListings godoc
// @Summary      Search listings
// @Tags         Listings
// @Produce      json
// @Param        searchTerm query string false "Case-insensitive substring of the name"
// @Param        semester   query string false "1-10, I-X or all"
// @Param        sort       query string false "createdAt, updatedAt, price or name" default(createdAt)
// @Param        order      query string false "asc or desc" default(desc)
// @Param        limit      query int    false "Page size" default(10)
// @Param        startIndex query int    false "Offset" default(0)
// @Success      200 {object} types.ListingPage
// @Failure      400 {object} types.ErrorBody
// @Router       /listing/get [get]
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	q, err := ParseListingQuery(r.URL.Query(), h.limits)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	page, err := h.listingService.GetListings(r.Context(), q)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, page)
}
