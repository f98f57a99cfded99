package storage

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/apuntes-marketplace/internal/api"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/auth"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

type StorageHandler struct {
	storageService StorageService
	logger         *slog.Logger
}

func NewStorageHandler(storageService StorageService, logger *slog.Logger) *StorageHandler {
	return &StorageHandler{
		storageService: storageService,
		logger:         logger,
	}
}

// PresignUpload godoc
// @Summary      Get an upload URL for a listing image
// @Description  PUT the file to uploadUrl with the same Content-Type, then put publicUrl in the listing's imageUrls.
// @Tags         Storage
// @Accept       json
// @Produce      json
// @Param        body body types.PresignRequest true "File to upload"
// @Success      200 {object} types.PresignedUpload
// @Failure      400 {object} types.ErrorBody "only image uploads are allowed"
// @Failure      401 {object} types.ErrorBody
// @Router       /storage/presign [post]
func (h *StorageHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.CallerID(r.Context())
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	var req types.PresignRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}

	upload, err := h.storageService.PresignUpload(r.Context(), callerID, req)
	if err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, upload)
}
