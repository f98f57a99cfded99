package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/google"

	"github.com/FACorreiaa/apuntes-marketplace/config"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

// IdentityVerifier confirms a federated access token with its issuer.
type IdentityVerifier interface {
	Verify(ctx context.Context, accessToken string) (*types.VerifiedIdentity, error)
}

var ErrIdentityRejected = errors.New("identity provider rejected the assertion")

// GoogleVerifier resolves a Google OAuth access token to the account behind it
// through goth's Google provider.
type GoogleVerifier struct {
	provider *google.Provider
}

var _ IdentityVerifier = (*GoogleVerifier)(nil)

func NewGoogleVerifier(cfg config.GoogleOAuthConfig, client *http.Client) *GoogleVerifier {
	p := google.New(cfg.ClientID, cfg.ClientSecret, cfg.CallbackURL, "email", "profile")
	if client != nil {
		p.HTTPClient = client
	}
	goth.UseProviders(p)
	return &GoogleVerifier{provider: p}
}

func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*types.VerifiedIdentity, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", ErrIdentityRejected)
	}

	u, err := v.provider.FetchUser(&google.Session{AccessToken: accessToken})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityRejected, err)
	}
	if u.Email == "" {
		return nil, fmt.Errorf("%w: no email on account", ErrIdentityRejected)
	}
	for _, key := range []string{"verified_email", "email_verified"} {
		if verified, ok := u.RawData[key].(bool); ok && !verified {
			return nil, fmt.Errorf("%w: email not verified", ErrIdentityRejected)
		}
	}

	return &types.VerifiedIdentity{
		Provider:  u.Provider,
		Subject:   u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}, nil
}
