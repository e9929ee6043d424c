// internal/component/env.go
//
// Env exposes shared process resources to components during Init.

package component

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/config"
	"github.com/yanizio/linkbio/internal/domain"
	"github.com/yanizio/linkbio/internal/events"
)

// Middleware is the chi/net-http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Env is implemented by cmd/web and by test fixtures.
type Env interface {
	DB() *sqlx.DB
	Config() *config.Config
	Events() events.Publisher
	Hosts() *domain.HostCache
	DNS() domain.Resolver
	// RequireUser authenticates and sets auth.UserID.
	RequireUser() Middleware
	// RequirePage scopes to the caller's page and sets acl.PageID.
	RequirePage() Middleware
	// Public wraps unauthenticated routes with rate limiting and request
	// enrichment.
	Public() Middleware
	Now() time.Time
}

// Publish sends an event and logs, rather than returns, failures.  Event
// delivery never fails the request that caused it.
func Publish(ctx context.Context, env Env, typ string, data any) {
	if err := env.Events().Publish(ctx, typ, data); err != nil {
		zap.L().Warn("publish event", zap.String("type", typ), zap.Error(err))
	}
}
