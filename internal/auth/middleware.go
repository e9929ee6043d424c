// internal/auth/middleware.go
//
// Chi middleware that turns a provider token into a local user ID.
//
// Tokens are read from `Authorization: Bearer …` first, then from the
// session cookie.  The Resolver maps verified claims to a `user` row,
// creating it on first sight.

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Resolver maps verified claims to a local user ID.
type Resolver func(ctx context.Context, c *Claims) (int64, error)

// Middleware rejects requests without a valid token with 401.
func Middleware(secret []byte, cookieName string, resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractToken(r, cookieName)
			if tok == "" {
				unauthorized(w)
				return
			}
			claims, err := Parse(secret, tok)
			if err != nil {
				zap.L().Debug("token rejected", zap.Error(err))
				unauthorized(w)
				return
			}
			uid, err := resolve(r.Context(), claims)
			if err != nil {
				zap.L().Error("resolve user", zap.String("sub", claims.Subject), zap.Error(err))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "internal error"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":"unauthorized"}` + "\n"))
}

func extractToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
