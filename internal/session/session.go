// internal/session/session.go
//
// Session cookie helpers.
//
// Context
//   Browser clients exchange the provider token for an HttpOnly cookie via
//   POST /api/session so scripts never hold the raw token.  The cookie value
//   is the provider JWT itself; auth.Middleware verifies it on every request,
//   so no server-side session store is needed.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"
)

// Set writes the session cookie holding token.
func Set(w http.ResponseWriter, r *http.Request, name, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// isHTTPS honours TLS termination at a proxy.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
