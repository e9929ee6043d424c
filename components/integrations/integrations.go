// components/integrations/integrations.go
//
// Integrations component – stored provider configs for the owner's page.
//
// Routes
//   GET    /api/integrations              list, secrets masked
//   PUT    /api/integrations/{provider}   upsert config + enabled
//   DELETE /api/integrations/{provider}
//
// linkbio never calls the providers.  A masked secret sent back unchanged
// keeps the stored value, so the editor can round-trip what it was shown.

package integrations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/integration"
)

var _ component.Component = (*Component)(nil)

// Component serves /api/integrations and owns `integration` and
// `subscriber`.
type Component struct {
	env component.Env
}

func (c *Component) Name() string                 { return "integrations" }
func (c *Component) Order() int                   { return 40 }
func (c *Component) Migrations() []string         { return integration.Schema }
func (c *Component) Init(env component.Env) error { c.env = env; return nil }

func (c *Component) Routes(r chi.Router) {
	r.With(c.env.RequireUser(), c.env.RequirePage()).Route("/api/integrations", func(r chi.Router) {
		r.Get("/", c.handleList)
		r.Put("/{provider}", c.handlePut)
		r.Delete("/{provider}", c.handleDelete)
	})
}

func init() { component.Register(&Component{}) }

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	pid, _ := acl.PageID(r.Context())
	recs, err := integration.List(r.Context(), c.env.DB(), pid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	out := make([]integration.Record, len(recs))
	for i, rec := range recs {
		out[i] = rec.Masked()
	}
	api.OK(w, out)
}

func (c *Component) handlePut(w http.ResponseWriter, r *http.Request) {
	var in integration.Input
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	rec, err := integration.Upsert(r.Context(), c.env.DB(), pid, chi.URLParam(r, "provider"), in)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, rec.Masked())
}

func (c *Component) handleDelete(w http.ResponseWriter, r *http.Request) {
	pid, _ := acl.PageID(r.Context())
	if err := integration.Delete(r.Context(), c.env.DB(), pid, chi.URLParam(r, "provider")); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.NoContent(w)
}
