// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package web

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// CookieSettings holds the externally configured attributes of the session
// cookie. The max age is advisory only: the server never expires sessions
// on its own.
type CookieSettings struct {
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// ParseSameSite maps a config string to its http.SameSite mode. Unknown
// values fall back to Lax.
func ParseSameSite(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// setSessionCookie attaches the session token to the response.
func (s CookieSettings) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: s.HTTPOnly,
		Secure:   s.Secure,
		SameSite: s.SameSite,
		MaxAge:   int(s.MaxAge.Seconds()),
	})
}

// clearSessionCookie instructs the client to drop the session cookie.
func (s CookieSettings) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: s.HTTPOnly,
		Secure:   s.Secure,
		SameSite: s.SameSite,
		MaxAge:   -1,
	})
}

// sessionToken extracts the token from the request cookie, or "" when the
// cookie is absent.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
