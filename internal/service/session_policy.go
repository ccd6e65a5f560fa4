package service

import (
	"net/http"
	"time"
)

// SessionPolicy builds the access-token cookie for each environment. The
// cookie exists for same-site and subdomain convenience; the bearer token in
// the response body covers cross-origin deployments where third-party
// cookies are unreliable.
type SessionPolicy struct {
	CookieName string
	// CookieDomain scopes the cookie to the parent domain in development
	// so shop subdomains share the session. Empty leaves it host-default.
	CookieDomain string
	Production   bool
}

func NewSessionPolicy(cookieName string, cookieDomain string, production bool) SessionPolicy {
	if cookieName == "" {
		cookieName = "access_token"
	}
	return SessionPolicy{CookieName: cookieName, CookieDomain: cookieDomain, Production: production}
}

// SessionCookie carries the token with a MaxAge matching the token TTL.
// SameSite=None (with Secure) is required in production because the
// frontend and API live on different sites there.
func (p SessionPolicy) SessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     p.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   p.CookieDomain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
	}
}

// ClearingCookie mirrors every attribute of the session cookie. Browsers
// only remove a cookie when domain, path, SameSite and Secure all match the
// values it was set with.
func (p SessionPolicy) ClearingCookie() *http.Cookie {
	return &http.Cookie{
		Name:     p.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   p.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
	}
}

func (p SessionPolicy) sameSite() http.SameSite {
	if p.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
