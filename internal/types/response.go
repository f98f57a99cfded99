package types

// Response is the generic acknowledgement body.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Success    bool   `json:"success" example:"false"`
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"Listing not found!"`
}
