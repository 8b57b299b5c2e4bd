package auth

import (
	"net/http"
	"time"
)

const (
	// CookieName is the name of the auth cookie.
	CookieName = "spq-auth"
	// CookieMaxAge is the cookie lifetime. There is no server-side session
	// record, so this is the whole session lifetime. The guard refreshes it
	// on every authenticated request (sliding expiration).
	CookieMaxAge = 7 * 24 * time.Hour
)

// SetAuthCookie writes the token cookie on the response.
func SetAuthCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(CookieMaxAge.Seconds()),
	})
}

// ClearAuthCookie removes the auth cookie.
func ClearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
