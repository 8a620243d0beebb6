package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the HttpOnly cookie carrying the session token
const SessionCookieName = "session"

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Domain   string // empty = current host only
	Secure   bool
	SameSite http.SameSite
}

func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: sameSiteOrLax(config.SameSite),
	})
}

func ClearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: sameSiteOrLax(config.SameSite),
	})
}

// SessionTokenFromRequest reads the session from the cookie, falling back to a Bearer header
func SessionTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}

	return ""
}

func sameSiteOrLax(s http.SameSite) http.SameSite {
	if s == 0 {
		return http.SameSiteLaxMode
	}
	return s
}
