// Package componenttest provides an in-memory component.Env backed by
// sqlmock for handler tests.
package componenttest

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/config"
	"github.com/yanizio/linkbio/internal/domain"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/requestinfo"
)

// Published is one captured event.
type Published struct {
	Type string
	Data any
}

// Recorder captures events instead of sending them.
type Recorder struct {
	mu  sync.Mutex
	Got []Published
}

// Publish implements events.Publisher.
func (r *Recorder) Publish(_ context.Context, typ string, data any) error {
	r.mu.Lock()
	r.Got = append(r.Got, Published{Type: typ, Data: data})
	r.mu.Unlock()
	return nil
}

// Close implements events.Publisher.
func (r *Recorder) Close() error { return nil }

// Types lists captured event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Got))
	for i, p := range r.Got {
		out[i] = p.Type
	}
	return out
}

// Env is a fixed-identity component.Env.  UserID and PageID are injected
// by RequireUser and RequirePage; a zero PageID makes RequirePage answer
// 404 like the real middleware.
type Env struct {
	Mock     sqlmock.Sqlmock
	UserID   int64
	PageID   int64
	Clock    time.Time
	Recorder *Recorder
	Resolver domain.Resolver

	db    *sqlx.DB
	cfg   *config.Config
	hosts *domain.HostCache
}

// New builds an Env whose host cache loads through domain.PageIDByHost.
func New(t *testing.T) *Env {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	e := &Env{
		Mock:     mock,
		UserID:   1,
		PageID:   10,
		Clock:    time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		Recorder: &Recorder{},
		db:       sqlx.NewDb(raw, "mysql"),
		cfg: &config.Config{
			HTTP:    config.HTTP{PublicHost: "linkbio.app"},
			Auth:    config.Auth{CookieName: "linkbio_session", SessionTTL: time.Hour, JWTSecret: "test-secret-test-secret-test-secret"},
			Domains: config.Domains{CNAMETarget: "pages.linkbio.app", TXTPrefix: "_linkbio"},
		},
	}
	e.hosts = domain.NewHostCache(func(ctx context.Context, host string) (int64, error) {
		return domain.PageIDByHost(ctx, e.db, host)
	}, time.Hour, 100)
	t.Cleanup(func() {
		e.hosts.Close()
		raw.Close()
	})
	return e
}

func (e *Env) DB() *sqlx.DB                 { return e.db }
func (e *Env) Config() *config.Config       { return e.cfg }
func (e *Env) Events() events.Publisher     { return e.Recorder }
func (e *Env) Hosts() *domain.HostCache     { return e.hosts }
func (e *Env) DNS() domain.Resolver         { return e.Resolver }
func (e *Env) Now() time.Time               { return e.Clock }
func (e *Env) Public() component.Middleware { return requestinfo.Enrich }

func (e *Env) RequireUser() component.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), e.UserID)))
		})
	}
}

func (e *Env) RequirePage() component.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if e.PageID == 0 {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"success":false,"error":"create your page first"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r.WithContext(acl.WithPage(r.Context(), e.PageID)))
		})
	}
}

// Router initialises c against e and returns a router with its routes.
func Router(t *testing.T, e *Env, c component.Component) chi.Router {
	t.Helper()
	if err := c.Init(e); err != nil {
		t.Fatalf("%s.Init: %v", c.Name(), err)
	}
	r := chi.NewRouter()
	c.Routes(r)
	return r
}

// Verify fails t on unmet SQL expectations.
func (e *Env) Verify(t *testing.T) {
	t.Helper()
	if err := e.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
