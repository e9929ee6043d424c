// components/analytics/analytics.go
//
// Analytics component – the owner's dashboard numbers.
//
// Routes
//   GET /api/analytics?from=YYYY-MM-DD&to=YYYY-MM-DD
//
// The range defaults to the last 30 days and is capped at 366.  Rows are
// fetched once and folded in memory by analytics.Aggregate.

package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/analytics"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/link"
)

var _ component.Component = (*Component)(nil)

// Component serves /api/analytics and owns `analytics_event`.
type Component struct {
	env component.Env
}

func (c *Component) Name() string                 { return "analytics" }
func (c *Component) Order() int                   { return 40 }
func (c *Component) Migrations() []string         { return analytics.Schema }
func (c *Component) Init(env component.Env) error { c.env = env; return nil }

func (c *Component) Routes(r chi.Router) {
	r.With(c.env.RequireUser(), c.env.RequirePage()).Get("/api/analytics", c.handleSummary)
}

func init() { component.Register(&Component{}) }

func (c *Component) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := analytics.ParseRange(q.Get("from"), q.Get("to"), c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	ctx := r.Context()
	pid, _ := acl.PageID(ctx)
	evs, err := analytics.Range(ctx, c.env.DB(), pid, from, to)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	links, err := link.List(ctx, c.env.DB(), pid, c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	titles := make(map[int64]string, len(links))
	for _, l := range links {
		titles[l.ID] = l.Title
	}

	api.OK(w, analytics.Aggregate(evs, titles, from, to))
}
