// components/links/links.go
//
// Links component – owner CRUD for the page's link list.
//
// Routes
//   GET    /api/links           list with computed status
//   POST   /api/links           append
//   PUT    /api/links/order     {"ids": […]}
//   PATCH  /api/links/{id}
//   DELETE /api/links/{id}
//
// Status is resolved against env.Now() on every read, so a scheduled link
// flips to active without a write.

package links

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/link"
)

var _ component.Component = (*Component)(nil)

// Component serves /api/links.
type Component struct {
	env component.Env
}

func (c *Component) Name() string                 { return "links" }
func (c *Component) Order() int                   { return 30 }
func (c *Component) Migrations() []string         { return link.Schema }
func (c *Component) Init(env component.Env) error { c.env = env; return nil }

func (c *Component) Routes(r chi.Router) {
	r.With(c.env.RequireUser(), c.env.RequirePage()).Route("/api/links", func(r chi.Router) {
		r.Get("/", c.handleList)
		r.Post("/", c.handleCreate)
		r.Put("/order", c.handleOrder)
		r.Patch("/{id}", c.handlePatch)
		r.Delete("/{id}", c.handleDelete)
	})
}

func init() { component.Register(&Component{}) }

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	pid, _ := acl.PageID(r.Context())
	ls, err := link.List(r.Context(), c.env.DB(), pid, c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, ls)
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in link.NewLink
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	id, err := link.Create(r.Context(), c.env.DB(), pid, in)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	l, err := link.Get(r.Context(), c.env.DB(), pid, id, c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.Created(w, l)
}

func (c *Component) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	var in link.Patch
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	if err := link.Update(r.Context(), c.env.DB(), pid, id, in); err != nil {
		api.Fail(w, r, err)
		return
	}
	l, err := link.Get(r.Context(), c.env.DB(), pid, id, c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, l)
}

func (c *Component) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	if err := link.Delete(r.Context(), c.env.DB(), pid, id); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.NoContent(w)
}

func (c *Component) handleOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDs []int64 `json:"ids" validate:"required"`
	}
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	if err := link.Reorder(r.Context(), c.env.DB(), pid, in.IDs); err != nil {
		api.Fail(w, r, err)
		return
	}
	c.handleList(w, r)
}
