// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

// HostLookup resolves custom hosts; *domain.HostCache satisfies it.
type HostLookup interface {
	Get(ctx context.Context, host string) (int64, error)
}

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not
// “localhost”, and the host is either the platform host or a verified
// custom domain, the wrapper issues a 308 Permanent Redirect to the HTTPS
// version of the same URL.  Otherwise it calls the next handler unchanged.
//
// A TLS-terminating proxy is detected through X-Forwarded-Proto.
func ForceHTTPS(publicHost string, hosts HostLookup, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := stripPort(r.Host)

		// Already HTTPS or dev host → continue.
		if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") || host == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		if strings.EqualFold(host, publicHost) || known(r.Context(), hosts, host) {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow (likely 404 later).
		h.ServeHTTP(w, r)
	})
}

func known(ctx context.Context, hosts HostLookup, host string) bool {
	if hosts == nil {
		return false
	}
	_, err := hosts.Get(ctx, strings.ToLower(host))
	return err == nil
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
