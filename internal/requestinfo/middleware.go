// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each public request with *RequestInfo.
//
/*
Context
--------
Public routes record analytics events.  For every request this handler:

  1. Parses the User-Agent header (memoised).
  2. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`.
  3. Performs a GeoLite2 lookup when a database is loaded.
  4. Reduces the Referer header to a host, ignoring self-referrals.
  5. Stores a `*RequestInfo` in `request.Context`.

Instrumentation
---------------
At debug level each invocation logs client IP, country, browser, device,
bot flag, and referrer.
*/
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich wraps an http.Handler, attaches *RequestInfo, and forwards.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			UA:        ParseUA(r.UserAgent()),
			Geo:       lookupGeo(ClientIP(r)),
			Referrer:  referrerHost(r.Referer(), stripPort(r.Host)),
			Timestamp: time.Now().UTC(),
		}

		zap.S().Debugw("request info",
			"ip", info.Geo.IP,
			"country", info.Geo.CountryISO,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"referrer", info.Referrer,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// ClientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func ClientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}

// stripPort removes :port from the Host header when present.
func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}
