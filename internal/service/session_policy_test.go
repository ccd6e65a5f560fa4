package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionCookieDevelopment(t *testing.T) {
	policy := NewSessionPolicy("access_token", ".localhost", false)

	cookie := policy.SessionCookie("tok", 30*time.Minute)
	require.Equal(t, "access_token", cookie.Name)
	require.Equal(t, "tok", cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, ".localhost", cookie.Domain)
	require.Equal(t, int((30 * time.Minute).Seconds()), cookie.MaxAge)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestSessionCookieProduction(t *testing.T) {
	policy := NewSessionPolicy("access_token", "", true)

	cookie := policy.SessionCookie("tok", 168*time.Hour)
	require.Empty(t, cookie.Domain)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	require.Equal(t, int((168 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestRememberMeCookieOutlivesDefault(t *testing.T) {
	policy := NewSessionPolicy("access_token", ".localhost", false)

	short := policy.SessionCookie("tok", 30*time.Minute)
	long := policy.SessionCookie("tok", 168*time.Hour)
	require.Greater(t, long.MaxAge, short.MaxAge)
	require.True(t, long.Expires.After(short.Expires))
}

func TestClearingCookieMatchesSessionAttributes(t *testing.T) {
	for _, production := range []bool{false, true} {
		policy := NewSessionPolicy("access_token", "", production)

		set := policy.SessionCookie("tok", time.Hour)
		cleared := policy.ClearingCookie()

		// Browsers only drop the cookie when these attributes match the
		// ones it was set with.
		require.Equal(t, set.Name, cleared.Name)
		require.Equal(t, set.Path, cleared.Path)
		require.Equal(t, set.Domain, cleared.Domain)
		require.Equal(t, set.Secure, cleared.Secure)
		require.Equal(t, set.SameSite, cleared.SameSite)
		require.Equal(t, -1, cleared.MaxAge)
		require.Empty(t, cleared.Value)
	}
}

func TestEmptyCookieNameFallsBack(t *testing.T) {
	policy := NewSessionPolicy("", "", false)
	require.Equal(t, "access_token", policy.CookieName)
}
