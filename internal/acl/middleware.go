// internal/acl/middleware.go
//
// Chi middleware that scopes a request to the caller's page.

package acl

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/database"
)

type pageKey struct{}

// WithPage stores the page id in ctx.  Used by RequirePage and tests.
func WithPage(ctx context.Context, pageID int64) context.Context {
	return context.WithValue(ctx, pageKey{}, pageID)
}

// PageID returns the page id stored by RequirePage.
func PageID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(pageKey{}).(int64)
	return id, ok
}

// RequirePage answers 404 when the authenticated user has no page yet.
// It must run after auth.Middleware.
func RequirePage(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := auth.UserID(r.Context())
			if !ok {
				api.Fail(w, r, auth.ErrUnauthorized)
				return
			}
			pid, err := OwnedPageID(r.Context(), db, uid)
			if errors.Is(err, database.ErrNotFound) {
				api.Fail(w, r, api.Errorf(http.StatusNotFound, "create your page first"))
				return
			}
			if err != nil {
				api.Fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPage(r.Context(), pid)))
		})
	}
}
