package types

import "errors"

var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrInvalidInput    = errors.New("invalid input")
)

// APIError pairs one of the sentinel errors above with a message that is safe
// to send to the client.
type APIError struct {
	Kind    error
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// NewAPIError returns an error that matches kind with errors.Is and renders msg.
func NewAPIError(kind error, msg string) error {
	return &APIError{Kind: kind, Message: msg}
}
