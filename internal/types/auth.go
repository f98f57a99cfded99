package types

import "github.com/golang-jwt/jwt/v5"

// Claims are carried by the session token. The token id (jti) lives in
// RegisteredClaims.ID and is what signout revokes.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type SignupRequest struct {
	Username string `json:"username" example:"johndoe"`
	Email    string `json:"email" example:"john.doe@example.com"`
	Password string `json:"password" example:"secret123"`
}

type SigninRequest struct {
	Email    string `json:"email" example:"john.doe@example.com"`
	Password string `json:"password" example:"secret123"`
}

// FederatedAuthRequest is the identity assertion sent by the client after a
// Google sign-in popup.
type FederatedAuthRequest struct {
	Name        string `json:"name" example:"John Doe"`
	Email       string `json:"email" example:"john.doe@gmail.com"`
	Photo       string `json:"photo,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// VerifiedIdentity is what an identity provider confirmed about the caller.
type VerifiedIdentity struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}
