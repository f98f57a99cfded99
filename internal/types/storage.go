package types

import "time"

type PresignRequest struct {
	FileName    string `json:"fileName" example:"portada.png"`
	ContentType string `json:"contentType" example:"image/png"`
}

// PresignedUpload tells the client where to PUT the file and which URL to
// store in a listing's imageUrls afterwards.
type PresignedUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
