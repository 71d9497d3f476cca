package httpapi

import (
	"net/http"
	"time"

	authservice "github.com/MrEthical07/authservice"
	"github.com/MrEthical07/authservice/jwt"
)

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	// Secure marks the cookie HTTPS only.
	Secure bool
	// Domain scopes the cookie. Empty means host only.
	Domain string
}

func (c CookieConfig) session(token jwt.Token) *http.Cookie {
	return &http.Cookie{
		Name:     authservice.CookieName,
		Value:    token.Value,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// cleared matches the session cookie's path and domain so the browser
// drops it.
func (c CookieConfig) cleared() *http.Cookie {
	return &http.Cookie{
		Name:     authservice.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
