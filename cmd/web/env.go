// cmd/web/env.go

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/config"
	"github.com/yanizio/linkbio/internal/domain"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/ratelimit"
	"github.com/yanizio/linkbio/internal/requestinfo"
	"github.com/yanizio/linkbio/internal/user"
)

// appEnv is the process-wide component.Env.
type appEnv struct {
	db      *sqlx.DB
	cfg     *config.Config
	events  events.Publisher
	hosts   *domain.HostCache
	dns     domain.Resolver
	limiter *ratelimit.Limiter
}

var _ component.Env = (*appEnv)(nil)

func (e *appEnv) DB() *sqlx.DB             { return e.db }
func (e *appEnv) Config() *config.Config   { return e.cfg }
func (e *appEnv) Events() events.Publisher { return e.events }
func (e *appEnv) Hosts() *domain.HostCache { return e.hosts }
func (e *appEnv) DNS() domain.Resolver     { return e.dns }
func (e *appEnv) Now() time.Time           { return time.Now().UTC() }

// RequireUser verifies the session token and maps its subject to a local
// user, creating the row on first sight.
func (e *appEnv) RequireUser() component.Middleware {
	return auth.Middleware([]byte(e.cfg.Auth.JWTSecret), e.cfg.Auth.CookieName,
		func(ctx context.Context, c *auth.Claims) (int64, error) {
			return user.Ensure(ctx, e.db, c.Subject, c.Email)
		})
}

func (e *appEnv) RequirePage() component.Middleware { return acl.RequirePage(e.db) }

// Public rate limits before enrichment so rejected requests skip the UA
// and GeoIP work.
func (e *appEnv) Public() component.Middleware {
	return func(next http.Handler) http.Handler {
		return e.limiter.Handler(requestinfo.Enrich(next))
	}
}
