// components/public/public.go
//
// Public component – unauthenticated visitor traffic.
//
// Routes (all behind env.Public(): per-IP rate limit + request enrichment)
//   GET  /                                  page for a verified custom host
//   GET  /api/public/pages/{slug}           published page payload
//   POST /api/public/pages/{slug}/subscribe email capture
//   GET  /l/{id}                            tracked link redirect
//
// Analytics
//   Page views and link clicks are written synchronously.  A failed write is
//   logged and the visitor still gets the page or the redirect.
//
//------------------------------------------------------------------------------

package public

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/analytics"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/block"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/link"
	"github.com/yanizio/linkbio/internal/metrics"
	"github.com/yanizio/linkbio/internal/page"
	"github.com/yanizio/linkbio/internal/requestinfo"
)

var _ component.Component = (*Component)(nil)

// Component serves visitor-facing routes.  It owns no tables.
type Component struct {
	env component.Env
}

func (c *Component) Name() string                 { return "public" }
func (c *Component) Order() int                   { return 90 }
func (c *Component) Migrations() []string         { return nil }
func (c *Component) Init(env component.Env) error { c.env = env; return nil }

func (c *Component) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(c.env.Public())
		r.Get("/", c.handleHostRoot)
		r.Get("/api/public/pages/{slug}", c.handlePage)
		r.Post("/api/public/pages/{slug}/subscribe", c.handleSubscribe)
		r.Get("/l/{id}", c.handleRedirect)
	})
}

func init() { component.Register(&Component{}) }

// Payload is what a visitor's browser renders.
type Payload struct {
	Page   *page.Record   `json:"page"`
	Blocks []block.Record `json:"blocks"`
	Links  []link.Record  `json:"links"`
}

func (c *Component) handlePage(w http.ResponseWriter, r *http.Request) {
	p, err := page.BySlug(r.Context(), c.env.DB(), chi.URLParam(r, "slug"))
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	c.serve(w, r, p)
}

// handleHostRoot answers GET / on a verified custom domain.  The platform
// host and unknown hosts get 404; the dashboard is served elsewhere.
func (c *Component) handleHostRoot(w http.ResponseWriter, r *http.Request) {
	host := hostOnly(r.Host)
	if host == "" || strings.EqualFold(host, c.env.Config().HTTP.PublicHost) {
		api.Fail(w, r, database.ErrNotFound)
		return
	}
	pid, err := c.env.Hosts().Get(r.Context(), host)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	p, err := page.PublishedByID(r.Context(), c.env.DB(), pid)
	if errors.Is(err, database.ErrNotFound) {
		// Unpublished since it was cached.
		c.env.Hosts().Invalidate(host)
	}
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	c.serve(w, r, p)
}

func (c *Component) serve(w http.ResponseWriter, r *http.Request, p *page.Record) {
	ctx := r.Context()
	blocks, err := block.List(ctx, c.env.DB(), p.ID, true)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	links, err := link.List(ctx, c.env.DB(), p.ID, c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	c.record(ctx, p.ID, nil, analytics.KindPageView)
	metrics.PageViewsTotal.Inc()

	api.OK(w, Payload{Page: p, Blocks: blocks, Links: link.Visible(links)})
}

// record writes one analytics event unless the visitor is a bot.
func (c *Component) record(ctx context.Context, pageID int64, linkID *int64, kind string) {
	ev, ok := analytics.FromRequest(requestinfo.FromContext(ctx), pageID, linkID, kind)
	if !ok {
		return
	}
	if err := analytics.Insert(ctx, c.env.DB(), ev); err != nil {
		zap.L().Warn("record analytics event",
			zap.String("kind", kind), zap.Int64("page_id", pageID), zap.Error(err))
	}
}

// hostOnly strips an optional port and lowercases.
func hostOnly(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	return strings.ToLower(strings.TrimSuffix(h, "."))
}
