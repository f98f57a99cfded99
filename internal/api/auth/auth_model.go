package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/FACorreiaa/apuntes-marketplace/config"
)

const (
	bcryptCost         = 10
	generatedPassLen   = 16
	usernameSuffixLen  = 4
	maxUsernameRetries = 3
)

// SessionCookie writes and reads the HTTP-only cookie that carries the session token.
type SessionCookie struct {
	name   string
	secure bool
	domain string
	ttl    time.Duration
}

func NewSessionCookie(cfg config.CookieConfig, ttl time.Duration) *SessionCookie {
	name := cfg.Name
	if name == "" {
		name = "access_token"
	}
	return &SessionCookie{name: name, secure: cfg.Secure, domain: cfg.Domain, ttl: ttl}
}

func (c *SessionCookie) Name() string {
	return c.name
}

func (c *SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   int(c.ttl.Seconds()),
		Expires:  time.Now().Add(c.ttl),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the session token from the cookie, falling back to an
// "Authorization: Bearer" header for non-browser clients.
func (c *SessionCookie) Token(r *http.Request) string {
	if ck, err := r.Cookie(c.name); err == nil && ck.Value != "" {
		return ck.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
